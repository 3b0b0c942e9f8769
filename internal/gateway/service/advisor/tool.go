package advisor

import genai "google.golang.org/genai"

const submitIdeaName = "submitIdea"

// submitIdeaTools declares the single capability the chat model may invoke.
// Field names and required-ness are a wire contract; keep them stable.
func submitIdeaTools() []*genai.Tool {
	return []*genai.Tool{{
		FunctionDeclarations: []*genai.FunctionDeclaration{{
			Name:        submitIdeaName,
			Description: "Call this function when the user has provided a site name, their email, and a clear description of their website idea.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"siteName": {
						Type:        genai.TypeString,
						Description: "The name of the website or project.",
					},
					"email": {
						Type:        genai.TypeString,
						Description: "The user's contact email address.",
					},
					"idea": {
						Type:        genai.TypeString,
						Description: "The detailed description of the website idea.",
					},
				},
				Required: []string{"siteName", "email", "idea"},
			},
		}},
	}}
}
