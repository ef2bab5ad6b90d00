package instructions

import (
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rotisserie/eris"

	"github.com/sells-group/dkma-cli/internal/model"
)

// DefaultAppName replaces app-name placeholders when none is given.
const DefaultAppName = "your app"

// Format selects how HTML fields are rendered.
type Format string

// Supported formats.
const (
	FormatRaw      Format = "raw"
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
)

// ParseFormat validates a format name. The empty string means FormatHTML.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "":
		return FormatHTML, nil
	case FormatRaw, FormatHTML, FormatMarkdown:
		return f, nil
	default:
		return "", eris.Errorf("instructions: unknown format %q", s)
	}
}

// Matches "[Your app]" and the backslash-escaped "\[Your app\]" form.
var appNamePlaceholder = regexp.MustCompile(`\\?\[[Yy]our app\\?\]`)

// ReplaceAppName substitutes every app-name placeholder in s.
func ReplaceAppName(s, appName string) string {
	if appName == "" {
		appName = DefaultAppName
	}
	return appNamePlaceholder.ReplaceAllLiteralString(s, appName)
}

// Options configures Build.
type Options struct {
	AppName string
	Format  Format
}

// Instructions is the display form of one manufacturer's entry.
type Instructions struct {
	Found             bool   `json:"found" yaml:"found"`
	Query             string `json:"query" yaml:"query"`
	ID                string `json:"id,omitempty" yaml:"id,omitempty"`
	Name              string `json:"name,omitempty" yaml:"name,omitempty"`
	Award             any    `json:"award,omitempty" yaml:"award,omitempty"`
	Position          any    `json:"position,omitempty" yaml:"position,omitempty"`
	Explanation       string `json:"explanation,omitempty" yaml:"explanation,omitempty"`
	UserSolution      string `json:"user_solution,omitempty" yaml:"user_solution,omitempty"`
	DeveloperSolution string `json:"developer_solution,omitempty" yaml:"developer_solution,omitempty"`
	Format            Format `json:"format" yaml:"format"`
}

// Renderer turns dataset entries into Instructions. It is safe for
// concurrent use.
type Renderer struct {
	md     *converter.Converter
	policy *bluemonday.Policy
}

// NewRenderer creates a Renderer.
func NewRenderer() *Renderer {
	return &Renderer{
		md: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
		policy: bluemonday.UGCPolicy(),
	}
}

// Build looks up manufacturer in ds and renders its instructions. A missing
// manufacturer is not an error: the result has Found set to false.
func (r *Renderer) Build(ds model.Dataset, manufacturer string, opts Options) (*Instructions, error) {
	format := opts.Format
	if format == "" {
		format = FormatHTML
	}

	out := &Instructions{Query: NormalizeManufacturer(manufacturer), Format: format}

	id, rec, ok := Find(ds, manufacturer)
	if !ok {
		return out, nil
	}

	explanation, err := r.render(rec.Text(model.FieldExplanation), format)
	if err != nil {
		return nil, err
	}
	user, err := r.render(ReplaceAppName(rec.Text(model.FieldUserSolution), opts.AppName), format)
	if err != nil {
		return nil, err
	}
	developer, err := r.render(ReplaceAppName(rec.Text(model.FieldDeveloperSolution), opts.AppName), format)
	if err != nil {
		return nil, err
	}

	out.Found = true
	out.ID = id
	out.Name = rec.Text(model.FieldName)
	out.Award = model.Value(rec.Award)
	out.Position = model.Value(rec.Position)
	out.Explanation = explanation
	out.UserSolution = user
	out.DeveloperSolution = developer
	return out, nil
}

func (r *Renderer) render(html string, format Format) (string, error) {
	if html == "" {
		return "", nil
	}
	switch format {
	case FormatRaw:
		return html, nil
	case FormatMarkdown:
		md, err := r.md.ConvertString(html)
		if err != nil {
			return "", eris.Wrap(err, "instructions: convert to markdown")
		}
		return strings.TrimSpace(md), nil
	default:
		return r.policy.Sanitize(html), nil
	}
}
