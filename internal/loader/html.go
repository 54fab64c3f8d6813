package loader

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// extractHTML pulls the visible text out of an HTML document using the
// standard tokenizer, skipping script and style content.
func extractHTML(body io.Reader) (string, error) {
	tokenizer := html.NewTokenizer(body)
	var textBuilder strings.Builder
	inScript := false
	inStyle := false

	for {
		tokenType := tokenizer.Next()

		switch tokenType {
		case html.ErrorToken:
			if tokenizer.Err() == io.EOF {
				return cleanText(textBuilder.String()), nil
			}
			return "", tokenizer.Err()

		case html.StartTagToken:
			token := tokenizer.Token()
			switch token.Data {
			case "script":
				inScript = true
			case "style":
				inStyle = true
			}

		case html.EndTagToken:
			token := tokenizer.Token()
			switch token.Data {
			case "script":
				inScript = false
			case "style":
				inStyle = false
			}

		case html.TextToken:
			if !inScript && !inStyle {
				text := strings.TrimSpace(tokenizer.Token().Data)
				if text != "" {
					textBuilder.WriteString(text + " ")
				}
			}
		}
	}
}
