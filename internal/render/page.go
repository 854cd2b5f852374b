package render

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"html/template"

	"golang.org/x/net/html"

	"github.com/alnah/go-fedicomments/internal/assets"
	"github.com/alnah/go-fedicomments/internal/comment"
	"github.com/alnah/go-fedicomments/internal/pipeline"
)

// Page describes a standalone HTML document wrapping a comment section.
type Page struct {
	Title   string
	Lang    string
	Heading string

	// PostURL is embedded as a hidden element so scripts can find the thread.
	PostURL string

	// Stats renders the counters block when not nil.
	Stats *comment.Stats

	Section *html.Node
}

type pageData struct {
	Title   string
	Lang    string
	Heading string
	PostURL string
	Stats   template.HTML
	Section template.HTML
}

// RenderPage renders page with the page template and stylesheet from loader.
func (r *Renderer) RenderPage(ctx context.Context, loader assets.AssetLoader, page Page) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tmplContent, err := loader.LoadTemplate(assets.PageTemplateName)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPageRender, err)
	}
	tmpl, err := template.New("page").Parse(tmplContent)
	if err != nil {
		return "", fmt.Errorf("%w: parsing template: %v", ErrPageRender, err)
	}
	css, err := loader.LoadStyle(assets.DefaultStyleName)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPageRender, err)
	}

	data := pageData{
		Title:   cmp.Or(page.Title, "Comments"),
		Lang:    cmp.Or(page.Lang, "en"),
		Heading: cmp.Or(page.Heading, "Comments:"),
		PostURL: page.PostURL,
	}
	if page.Stats != nil {
		stats, err := HTML(r.RenderStats(*page.Stats))
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrPageRender, err)
		}
		data.Stats = template.HTML(stats) // #nosec G203 -- built from text nodes
	}
	section := page.Section
	if section == nil {
		section = r.NewSection()
	}
	sectionHTML, err := HTML(section)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPageRender, err)
	}
	data.Section = template.HTML(sectionHTML) // #nosec G203 -- sanitized fragments only

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPageRender, err)
	}

	out, err := pipeline.AddStylesheet(ctx, buf.String(), css)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrPageRender, err)
	}
	return out, nil
}
