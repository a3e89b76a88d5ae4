package agent

import (
	"context"

	"github.com/etnz/dogefolio/dashboard"
	"github.com/etnz/dogefolio/renderer"
	"google.golang.org/genai"
)

// DefaultModel is the model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// Board provides the current state of the dashboard, e.g. *dashboard.Store.
type Board interface {
	View() dashboard.View
}

// creates the facilitator
func newFacilitator(model string, experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and of answering the user's request.

			Learn about the experts' skills from the Tools and ask them questions.
			They keep the context of your previous questions.

			The user follows a cryptocurrency and a few portfolios holding it. They come to get a
			short brief on the market, the news, and how their portfolios are doing.
			Always ask the Analyst for the current figures before quoting any number.

			Answer in markdown, in a few short paragraphs or bullet points.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewResearcher returns an expert grounded on Google Search for recent news.
func NewResearcher(model string) *Expert {
	return &Expert{
		Name: "Researcher",
		Description: `This is an expert in cryptocurrency markets.
		Ask the Researcher whenever you need recent or grounding information about the market,
		regulation, or the events behind the latest news.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an expert in cryptocurrency markets. Use Google Search to ground your
			assertions, and relate recent events to the user's request.
			`}}},
		},
	}
}

// NewAnalyst returns an expert reading the live dashboard of board.
func NewAnalyst(model string, board Board) *Expert {
	lib := []Function{DashboardFunc(board), PortfolioFunc(board)}
	return &Expert{
		Name: "Analyst",
		Description: `This is the Analyst. It reads the live dashboard: current price and 24h statistics,
		the value and profit or loss of every portfolio, and the latest headlines.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are an analyst in charge of the user's dashboard.
				Use the available tools to read the current price, the portfolios and the news.
				Only quote figures returned by the tools. When the dashboard reports an error or
				stale data, say so.
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

// DashboardFunc returns the function reading the whole dashboard as markdown.
func DashboardFunc(board Board) *Func {
	const name = "Dashboard"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: "Dashboard returns the current price, 24h statistics, the portfolios summary and the latest news.",
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "The dashboard as markdown.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			v := board.View()
			return &genai.FunctionResponse{ID: id, Name: name, Response: map[string]any{
				"output": renderer.DashboardMarkdown(v, 10),
			}}
		},
	}
}

// PortfolioFunc returns the function reading one portfolio as markdown.
func PortfolioFunc(board Board) *Func {
	const name = "Portfolio"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: "Portfolio returns the holdings of one portfolio, valued at the current price.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"name": {
						Type:        genai.TypeString,
						Description: "The lowercase name of the portfolio, e.g. 'harshi'.",
					},
				},
				Required: []string{"name"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "The portfolio as a markdown table.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			key, _ := args["name"].(string)
			v := board.View()
			p, ok := v.Portfolio(key)
			if !ok {
				keys := make([]string, 0, len(v.Portfolios))
				for _, p := range v.Portfolios {
					keys = append(keys, p.Key)
				}
				return &genai.FunctionResponse{ID: id, Name: name, Response: map[string]any{
					"error":      "unknown portfolio " + key,
					"portfolios": keys,
				}}
			}
			return &genai.FunctionResponse{ID: id, Name: name, Response: map[string]any{
				"output": renderer.PortfolioMarkdown(p),
			}}
		},
	}
}
