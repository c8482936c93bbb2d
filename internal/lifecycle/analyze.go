package lifecycle

import (
	"context"
	"encoding/json"
)

const stockSystemPrompt = `You are an equity research analyst.
Based only on the financial data provided, write a summary useful for an
investment decision.

Output format (always start these three headings with ###):
### Investment Summary
### Risk Factors
### Points to Watch

Rules:
- Use only the data provided.
- State clearly that this is information, not investment advice.
- Cover both positive and negative aspects.
- Briefly explain any technical terms you use.`

const portfolioSystemPrompt = `You are an asset management specialist.
Based on the portfolio data provided, write a summary from the viewpoint of
risk and diversification. State clearly that this is information, not
investment advice.`

const defaultAnalysisTemperature = 0.3

// AnalyzeStock produces a natural-language analysis of one equity. The
// payload is whatever structured record the caller assembled from market
// data; it is embedded as JSON.
func (m *Manager) AnalyzeStock(ctx context.Context, stockData any) string {
	req, err := analysisRequest(stockSystemPrompt, "Analyze the following stock data and write a summary for investors:", stockData)
	if err != nil {
		return ""
	}
	return m.Generate(ctx, req)
}

// SummarizePortfolio produces a portfolio-level summary.
func (m *Manager) SummarizePortfolio(ctx context.Context, portfolioData any) string {
	req, err := analysisRequest(portfolioSystemPrompt, "Analyze the following portfolio data and write a risk assessment with suggestions:", portfolioData)
	if err != nil {
		return ""
	}
	return m.Generate(ctx, req)
}

// StreamAnalyzeStock is the streaming variant of AnalyzeStock.
func (m *Manager) StreamAnalyzeStock(ctx context.Context, stockData any) <-chan string {
	req, err := analysisRequest(stockSystemPrompt, "Analyze the following stock data and write a summary for investors:", stockData)
	if err != nil {
		out := make(chan string)
		close(out)
		return out
	}
	return m.StreamGenerate(ctx, req)
}

func analysisRequest(system, instruction string, data any) (Request, error) {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return Request{}, err
	}
	return UserRequest(system, instruction+"\n\n"+string(b), defaultAnalysisTemperature), nil
}
