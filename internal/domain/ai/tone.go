package ai

import "strings"

type Tone string

const (
	ToneProfessional Tone = "professional"
	ToneFriendly     Tone = "friendly"
	ToneSales        Tone = "sales"
	TonePolite       Tone = "polite"
)

var tonePrefixes = map[Tone]string{
	ToneProfessional: "Reply professionally to this customer message: ",
	ToneFriendly:     "Reply in a warm, friendly and casual tone to this customer message: ",
	ToneSales:        "Reply persuasively, highlight the product's value and invite the customer to buy, to this customer message: ",
	TonePolite:       "Reply politely and courteously to this customer message: ",
}

// ParseTone normalises a tone name. Unknown or empty tones become professional.
func ParseTone(s string) Tone {
	t := Tone(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := tonePrefixes[t]; ok {
		return t
	}
	return ToneProfessional
}

// ReplyPrompt prepends the tone instruction to the customer's message.
func ReplyPrompt(tone Tone, message string) string {
	prefix, ok := tonePrefixes[tone]
	if !ok {
		prefix = tonePrefixes[ToneProfessional]
	}
	return prefix + message
}

// SummaryPrompt asks for a summary of the joined conversation text.
func SummaryPrompt(conversation string) string {
	return "Summarize these messages: " + conversation
}
