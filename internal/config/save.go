package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a normalized copy of cfg together with the
// problems found in it. Warnings never stop a run.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	trimList := func(xs []string, fold bool) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := x
			if fold {
				key = strings.ToLower(x)
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	// locations match case-sensitively, keywords don't
	out.Locations = trimList(out.Locations, false)
	out.Jobs = trimList(out.Jobs, true)
	out.Email = strings.TrimSpace(out.Email)
	out.Source.Endpoint = strings.TrimSpace(out.Source.Endpoint)
	out.Source.LinkBase = strings.TrimRight(strings.TrimSpace(out.Source.LinkBase), "/")
	out.Mail.Transport = strings.ToLower(strings.TrimSpace(out.Mail.Transport))

	for _, p := range problems(out) {
		res.addErr("%s", p)
	}

	if out.Years > 30 {
		res.addWarn("years is %d; almost no listing will qualify.", out.Years)
	}
	if out.Source.MaxPages > 100 {
		res.addWarn("source.max_pages is %d; a run will issue up to %d requests.", out.Source.MaxPages, out.Source.MaxPages)
	}
	if out.Source.PageDelay.Std() > 0 && out.Source.PageDelay.Std().Milliseconds() < 200 {
		res.addWarn("source.page_delay is very low (%s) and may get the client blocked.", out.Source.PageDelay)
	}
	if out.Mail.Transport == "smtp" && out.Mail.SMTPPort != 465 && out.Mail.SMTPPort != 587 {
		res.addWarn("mail.smtp_port %d is unusual; 465 uses implicit TLS, anything else STARTTLS.", out.Mail.SMTPPort)
	}
	for _, j := range out.Jobs {
		if len([]rune(j)) == 1 {
			res.addWarn("job keyword %q is a single character and will match almost every title.", j)
		}
	}

	return out, res
}
