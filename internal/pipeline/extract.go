package pipeline

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jhillyerd/enmime"
	pdf "github.com/ledongthuc/pdf"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/htmlindex"

	"listingsheet/internal"
)

const blockSelectors = "p,div,li,tr,h1,h2,h3,h4,h5,h6,section,article,header,footer,address"

// ExtractText turns one input document into the plain listing text the
// pipeline consumes.
func ExtractText(inputType internal.InputType, blob []byte, charset string) (string, error) {
	switch inputType {
	case internal.InputText, "":
		return decodeCharset(blob, charset)
	case internal.InputHTML:
		return htmlToText(blob)
	case internal.InputEML:
		return emailToText(blob)
	case internal.InputPDF:
		return pdfToText(blob)
	default:
		return "", eris.Errorf("extract: unsupported input type: %s", inputType)
	}
}

func decodeCharset(blob []byte, charset string) (string, error) {
	charset = strings.TrimSpace(charset)
	if charset == "" || strings.EqualFold(charset, "utf-8") || strings.EqualFold(charset, "utf8") {
		return string(blob), nil
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return "", eris.Wrapf(err, "extract: unsupported charset %q", charset)
	}
	out, err := enc.NewDecoder().Bytes(blob)
	if err != nil {
		return "", eris.Wrapf(err, "extract: decode %s", charset)
	}
	return string(out), nil
}

// htmlToText keeps the visible text of a saved listing page with one line per
// block element.
func htmlToText(blob []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(blob))
	if err != nil {
		return "", eris.Wrap(err, "extract: parse html")
	}

	doc.Find("script,style,noscript,template").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find(blockSelectors).Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}
	return root.Text(), nil
}

func emailToText(blob []byte) (string, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(blob))
	if err != nil {
		return "", eris.Wrap(err, "extract: read email")
	}
	if strings.TrimSpace(env.Text) != "" {
		return env.Text, nil
	}
	if env.HTML != "" {
		return htmlToText([]byte(env.HTML))
	}
	return "", nil
}

func pdfToText(blob []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(blob), int64(len(blob)))
	if err != nil {
		return "", eris.Wrap(err, "extract: open pdf")
	}

	return joinPages(r.NumPage(), func(i int) (string, bool, error) {
		p := r.Page(i)
		if p.V.IsNull() {
			return "", false, nil
		}
		text, err := p.GetPlainText(nil)
		return text, true, err
	})
}

// joinPages joins the text of pages 1..n. Pages that fail are skipped; when
// no page yields text the last page error is returned.
func joinPages(n int, pageText func(i int) (string, bool, error)) (string, error) {
	pages := make([]string, 0, n)
	var lastErr error
	failed := 0
	for i := 1; i <= n; i++ {
		text, ok, err := pageText(i)
		if !ok {
			continue
		}
		if err != nil {
			lastErr = eris.Wrapf(err, "extract: pdf page %d", i)
			failed++
			continue
		}
		pages = append(pages, text)
	}
	if len(pages) == 0 && lastErr != nil {
		return "", lastErr
	}
	if failed > 0 {
		zap.L().Warn("extract: pdf pages skipped", zap.Int("failed", failed), zap.Int("pages", n), zap.Error(lastErr))
	}
	return strings.Join(pages, "\n"), nil
}
