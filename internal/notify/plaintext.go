package notify

import (
	"fmt"
	"strings"

	"wanted-mailer/internal/scrape/util"

	"github.com/PuerkitoBio/goquery"
)

// PlainText derives the text/plain alternative from the rendered HTML body:
// the heading, then one paragraph per listing block with <br> as line breaks
// and links written out.
func PlainText(htmlBody string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlBody))
	if err != nil {
		return "", fmt.Errorf("parse body: %w", err)
	}

	var b strings.Builder
	if h := util.CleanText(doc.Find("h2").First().Text()); h != "" {
		b.WriteString(h + "\n\n")
	}

	doc.Find("div.listing").Each(func(_ int, sel *goquery.Selection) {
		var line strings.Builder
		var lines []string
		flush := func() {
			if t := util.CleanText(line.String()); t != "" {
				lines = append(lines, t)
			}
			line.Reset()
		}

		sel.Contents().Each(func(_ int, n *goquery.Selection) {
			switch goquery.NodeName(n) {
			case "br":
				flush()
			case "a":
				href, _ := n.Attr("href")
				line.WriteString(n.Text() + ": " + href)
			default:
				line.WriteString(n.Text())
			}
		})
		flush()

		b.WriteString(strings.Join(lines, "\n") + "\n\n")
	})

	return strings.TrimRight(b.String(), "\n") + "\n", nil
}
