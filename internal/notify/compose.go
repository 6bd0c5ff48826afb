package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"wanted-mailer/internal/domain"
	"wanted-mailer/internal/store"
)

// Message is a composed notification, ready to be wrapped in MIME.
type Message struct {
	Subject string
	HTML    string
	Text    string
	Count   int
}

var bodyTmpl = template.Must(template.New("body").Parse(`<h2>📢 {{.Date}} 새 채용공고 ({{.Count}}건)</h2><hr>
{{range .Items}}<div class="listing" style="margin-bottom:15px;">
    <b>{{.Company}}</b> - {{.Position}}<br>
    📍 {{.Location}}<br>
    💰 리워드: {{.Reward}}<br>
    <a href="{{.URL}}" target="_blank">공고 보기</a>
</div>
{{end}}`))

type item struct {
	Company  string
	Position string
	Location string
	Reward   string
	URL      string
}

// ListingURL is the public page of a listing.
func ListingURL(linkBase, id string) string {
	return strings.TrimRight(linkBase, "/") + "/" + id
}

func Subject(now time.Time) string {
	return fmt.Sprintf("[원티드 알림] %s 새 공고 업데이트", now.In(store.KST).Format("01월 02일"))
}

// Compose renders listings, newest first, into a subject, an HTML body and
// a plain-text alternative.
func Compose(listings []domain.Listing, linkBase string, now time.Time) (Message, error) {
	items := make([]item, 0, len(listings))
	for _, l := range listings {
		reward := l.Reward
		if reward == "" {
			reward = "N/A"
		}
		items = append(items, item{
			Company:  l.Company,
			Position: l.Position,
			Location: l.Location,
			Reward:   reward,
			URL:      ListingURL(linkBase, l.ID),
		})
	}

	var buf bytes.Buffer
	err := bodyTmpl.Execute(&buf, struct {
		Date  string
		Count int
		Items []item
	}{
		Date:  now.In(store.KST).Format("01월 02일"),
		Count: len(listings),
		Items: items,
	})
	if err != nil {
		return Message{}, fmt.Errorf("render body: %w", err)
	}

	text, err := PlainText(buf.String())
	if err != nil {
		return Message{}, err
	}

	return Message{
		Subject: Subject(now),
		HTML:    buf.String(),
		Text:    text,
		Count:   len(listings),
	}, nil
}
