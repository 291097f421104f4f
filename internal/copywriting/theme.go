package copywriting

import "contentcal/internal/calendar"

const editorialTheme = "Editorial (sem evento) - conteudo de valor"

// PickTheme derives the post theme from the matched event's categories and
// the platform. Pure function: same inputs, same theme.
func PickTheme(ev *calendar.Event, platform calendar.Platform) string {
	if ev == nil {
		return editorialTheme
	}

	core := "Conteudo leve"
	switch {
	case ev.HasCategory(calendar.CategoryComercial):
		core = "Oferta/Condicao"
	case ev.HasCategory(calendar.CategorySazonal):
		core = "Dica de temporada"
	case ev.HasCategory(calendar.CategoryCausaSocial):
		core = "Mensagem institucional"
	}

	twist := "com gancho forte"
	switch platform {
	case calendar.PlatformLinkedIn:
		twist = "com insight"
	case calendar.PlatformTikTok:
		twist = "no ritmo da trend"
	}

	return core + " " + twist + " - " + ev.Name
}

// StubCopy is the deterministic fallback so a failed generator never blocks
// the flow.
func StubCopy(theme string) CopyPack {
	return CopyPack{
		Headline: theme,
		Body:     "Texto base: " + theme,
		CTA:      "Saiba mais",
	}
}
