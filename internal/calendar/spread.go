package calendar

import "math"

const (
	minMonthlyPosts = 4
	maxMonthlyPosts = 31
	weeksPerMonth   = 4.3
)

// EstimatePostCount converts a weekly cadence into a monthly post count,
// clamped to [4, 31].
func EstimatePostCount(postsPerWeek int) int {
	n := int(math.Round(float64(postsPerWeek) * weeksPerMonth))
	if n < minMonthlyPosts {
		return minMonthlyPosts
	}
	if n > maxMonthlyPosts {
		return maxMonthlyPosts
	}
	return n
}

// SpreadDates picks exactly count dates roughly evenly spaced across the
// month. Dates are non-decreasing and in-month; they are distinct unless
// count exceeds the days in the month, in which case the tail repeats the
// last valid date.
func SpreadDates(ym YearMonth, count int) ([]ISODate, error) {
	all, err := ListDatesInMonth(ym)
	if err != nil {
		return nil, err
	}
	if count <= 0 {
		return nil, nil
	}

	step := len(all) / count
	if step < 1 {
		step = 1
	}

	picked := make([]ISODate, 0, count)
	seen := make(map[ISODate]struct{}, count)
	for i := 0; i < len(all) && len(picked) < count; i += step {
		if _, dup := seen[all[i]]; dup {
			continue
		}
		seen[all[i]] = struct{}{}
		picked = append(picked, all[i])
	}

	for len(picked) < count {
		picked = append(picked, picked[len(picked)-1])
	}
	return picked[:count], nil
}

// ChooseFormatMix builds the weighted round-robin pool of formats for a
// platform, honoring the client's blocked and preferred formats. Preference
// dominance is intentionally heavy: each preferred format gets ten extra
// pool entries.
func ChooseFormatMix(profile PlatformProfile, client ClientProfile) []string {
	pref := client.PlatformPreferences[profile.Platform]

	blocked := make(map[string]struct{}, len(pref.BlockedFormats))
	for _, format := range pref.BlockedFormats {
		blocked[format] = struct{}{}
	}

	var formats []string
	for _, format := range profile.SupportedFormats {
		if _, isBlocked := blocked[format]; !isBlocked {
			formats = append(formats, format)
		}
	}

	var weighted []string
	for _, format := range formats {
		weight, ok := profile.DefaultMix[format]
		if !ok {
			weight = 10
		}
		copies := int(math.Round(float64(weight) / 5))
		if copies < 1 {
			copies = 1
		}
		for i := 0; i < copies; i++ {
			weighted = append(weighted, format)
		}
	}

	for _, format := range pref.PreferredFormats {
		if !profile.Supports(format) {
			continue
		}
		for i := 0; i < 10; i++ {
			weighted = append(weighted, format)
		}
	}

	if len(weighted) > 0 {
		return weighted
	}
	if len(formats) > 0 {
		return formats
	}
	return []string{"Post"}
}

// PickFormat selects the format for post index idx by deterministic
// round-robin over the weighted pool.
func PickFormat(pool []string, idx int) string {
	return pool[idx%len(pool)]
}
