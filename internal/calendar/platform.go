package calendar

import "fmt"

// PlatformProfile captures what a platform supports and favors.
type PlatformProfile struct {
	Platform         Platform
	SupportedFormats []string
	MaxChars         map[string]int
	LanguageStyle    string
	BestPractices    []string
	Avoid            []string
	// DefaultMix maps format -> weight percentage.
	DefaultMix map[string]int
}

var platformProfiles = []PlatformProfile{
	{
		Platform:         PlatformInstagram,
		SupportedFormats: []string{"Reels", "Carrossel", "Feed", "Stories"},
		MaxChars:         map[string]int{"caption": 2200, "headline": 125, "cta": 30, "body": 2200},
		LanguageStyle:    "visual, humano, escaneavel; gancho no comeco; CTA leve",
		BestPractices: []string{
			"Gancho nos primeiros 2-3 segundos (Reels) / 1a linha (caption)",
			"Texto escaneavel (quebras, bullets)",
			"1 CTA principal",
			"Carrossel: promessa clara na capa + progressao logica",
			"Stories: interacao (enquete/caixinha) para alcance",
		},
		Avoid:      []string{"texto longo sem quebra", "CTA agressivo em excesso", "jargao tecnico"},
		DefaultMix: map[string]int{"Reels": 35, "Carrossel": 30, "Feed": 20, "Stories": 15},
	},
	{
		Platform:         PlatformTikTok,
		SupportedFormats: []string{"Video", "Carousel", "Live"},
		MaxChars:         map[string]int{"caption": 2200, "headline": 80, "cta": 25, "body": 2200},
		LanguageStyle:    "direto, POV, ritmo rapido, humano; sem cara de anuncio",
		BestPractices: []string{
			"Comecar com conflito/curiosidade",
			"POV e bastidores performam",
			"Legenda curta e punchline",
			"Trend adaptada ao territorio da marca",
		},
		Avoid:      []string{"institucional pesado", "promocao dura", "texto corporativo"},
		DefaultMix: map[string]int{"Video": 70, "Carousel": 20, "Live": 10},
	},
	{
		Platform:         PlatformLinkedIn,
		SupportedFormats: []string{"Texto", "Documento", "Imagem", "Video", "Carrossel"},
		MaxChars:         map[string]int{"body": 3000, "headline": 120, "cta": 40},
		LanguageStyle:    "profissional + humano; insight; clareza; autoridade sem soberba",
		BestPractices: []string{
			"Primeira linha forte",
			"Historia curta + aprendizado",
			"Dados/experiencia pratica",
			"CTA conversacional (comentarios/DM)",
		},
		Avoid:      []string{"giria excessiva", "meme vazio", "emoji demais"},
		DefaultMix: map[string]int{"Texto": 35, "Documento": 25, "Carrossel": 20, "Video": 10, "Imagem": 10},
	},
	{
		Platform:         PlatformYouTube,
		SupportedFormats: []string{"Shorts", "VideoLongo", "CommunityPost"},
		MaxChars:         map[string]int{"body": 5000, "headline": 100, "cta": 40},
		LanguageStyle:    "didatico/entretenimento; titulos fortes; retencao manda",
		BestPractices: []string{
			"Shorts: hook imediato",
			"Titulo/thumbnail coerentes",
			"Estrutura em capitulos (longo)",
		},
		Avoid:      []string{"comeco lento", "titulo generico"},
		DefaultMix: map[string]int{"Shorts": 60, "CommunityPost": 25, "VideoLongo": 15},
	},
	{
		Platform:         PlatformX,
		SupportedFormats: []string{"Post", "Thread"},
		MaxChars:         map[string]int{"body": 280, "headline": 0, "cta": 30},
		LanguageStyle:    "curto, afiado, opinativo com cuidado; timing",
		BestPractices:    []string{"1 ideia por post", "threads com valor real", "ritmo e punchline"},
		Avoid:            []string{"texto longo sem estrutura"},
		DefaultMix:       map[string]int{"Post": 70, "Thread": 30},
	},
	{
		Platform:         PlatformPinterest,
		SupportedFormats: []string{"Pin", "IdeaPin"},
		MaxChars:         map[string]int{"body": 500, "headline": 100, "cta": 25},
		LanguageStyle:    "inspiracional, utilitario, busca/SEO visual",
		BestPractices:    []string{"titulo descritivo", "palavras-chave", "beneficio pratico"},
		Avoid:            []string{"texto vago", "sem utilidade"},
		DefaultMix:       map[string]int{"Pin": 70, "IdeaPin": 30},
	},
	{
		Platform:         PlatformMetaAds,
		SupportedFormats: []string{"FeedAd", "StoryAd", "ReelAd", "CarouselAd"},
		MaxChars:         map[string]int{"body": 125, "headline": 40, "cta": 20},
		LanguageStyle:    "beneficio + prova + CTA; direto e claro",
		BestPractices:    []string{"variacoes A/B", "1 promessa por criativo", "oferta clara"},
		Avoid:            []string{"texto longo", "promessa confusa"},
		DefaultMix:       map[string]int{"ReelAd": 30, "CarouselAd": 30, "FeedAd": 25, "StoryAd": 15},
	},
	{
		Platform:         PlatformGoogleAds,
		SupportedFormats: []string{"RSA", "Display"},
		MaxChars:         map[string]int{"headline": 30, "body": 90, "cta": 0},
		LanguageStyle:    "intencao de busca; palavra-chave; clareza",
		BestPractices:    []string{"beneficio direto", "keyword", "extensoes"},
		Avoid:            []string{"metafora demais", "texto vago"},
		DefaultMix:       map[string]int{"RSA": 70, "Display": 30},
	},
	{
		Platform:         PlatformEmail,
		SupportedFormats: []string{"Newsletter", "Promo", "Nurture", "Lifecycle"},
		MaxChars:         map[string]int{"headline": 80, "body": 2000, "cta": 40},
		LanguageStyle:    "claro, util, com objetivo; assunto direto",
		BestPractices: []string{
			"Assunto curto e objetivo",
			"1 CTA principal por email",
			"Hierarquia clara (titulo > beneficios > CTA)",
			"Personalizacao quando possivel",
		},
		Avoid:      []string{"texto longo sem quebras", "muitos CTAs", "linguagem vaga"},
		DefaultMix: map[string]int{"Newsletter": 35, "Promo": 30, "Nurture": 20, "Lifecycle": 15},
	},
}

// GetPlatformProfile looks up the profile for a platform.
func GetPlatformProfile(platform Platform) (PlatformProfile, error) {
	for _, profile := range platformProfiles {
		if profile.Platform == platform {
			return profile, nil
		}
	}
	return PlatformProfile{}, fmt.Errorf("calendar: missing platform profile: %s", platform)
}

// Supports reports whether the platform supports the given format.
func (p PlatformProfile) Supports(format string) bool {
	for _, f := range p.SupportedFormats {
		if f == format {
			return true
		}
	}
	return false
}
