package agent

import "github.com/weatherbot/weatherbot/internal/errorsx"

// ErrorReply turns a failed exchange into a message fit for the chat user.
func ErrorReply(err error) string {
	switch errorsx.Reason(err) {
	case errorsx.ReasonConfig:
		return "I'm not set up yet: an API key is missing. Check `weatherbot status`."
	case errorsx.ReasonTransport:
		return "Sorry, I couldn't reach the language model. Please try again in a moment."
	case errorsx.ReasonUpstream:
		return "Sorry, the language model returned an error. Please try again."
	case errorsx.ReasonUnknownAction:
		return "Sorry, I tried to use a tool I don't have. Could you rephrase your request?"
	}
	return "Sorry, I encountered an error calling the LLM."
}
