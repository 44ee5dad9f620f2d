package oracle

import (
	"strings"
	"text/template"
)

var (
	pagePrompt = template.Must(template.New("page").Parse(`
I'm looking for the official download URL for source code of the open-source component {{.Component}}.
If it's integrated into a larger project or an official download site isn't accessible, please let me know it's unavailable.
If there are several download options, please prioritize official sources like GNU or Coreutils.
Please reply with the following json format:
` + "```json" + `
{
    "component_name": "<full name of the component>",
    "available": true,
    "site_url": "<url of official download site>"
}
` + "```" + `
For example:
` + "```json" + `
{
    "component_name": "coreutils",
    "available": true,
    "site_url": "https://ftp.gnu.org/gnu/coreutils/"
}
` + "```" + `
`))

	sourcePrompt = template.Must(template.New("source").Parse(`
Is the download URL {{.URL}} for the source code of the open-source component {{.Component}}?
Please reply with a simple 'yes' or 'no'.
`))

	relatedPrompt = template.Must(template.New("related").Parse(`
Is the download url {{.URL}} related to the open-source component {{.Component}}?
Please reply with a simple yes or no.
`))

	pingPrompt = template.Must(template.New("ping").Parse(`Reply with the single word: yes`))
)

type promptData struct {
	Component string
	URL       string
}

func render(t *template.Template, data promptData) (string, error) {
	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}
