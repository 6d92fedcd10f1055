// Package commands recognizes structured directives in chat input and
// executes them locally so they never reach the inference engine.
package commands

import (
	"regexp"
	"strings"
)

// Channel is the input source of a message. Some rules only apply to one of
// them.
type Channel int

const (
	ChannelText Channel = iota
	ChannelVoice
)

func (c Channel) String() string {
	if c == ChannelVoice {
		return "voice"
	}
	return "text"
}

// ParseChannel maps "voice" to ChannelVoice and anything else to ChannelText.
func ParseChannel(s string) Channel {
	if strings.EqualFold(strings.TrimSpace(s), "voice") {
		return ChannelVoice
	}
	return ChannelText
}

// Kind tags an Intent.
type Kind int

const (
	KindNone Kind = iota
	KindRemember
	KindMalformedRemember
	KindClearMemory
	KindShowMemory
	KindHelp
	KindClearChat
	KindVoiceNote
	KindNavigate
	KindUnknownDestination
	KindUnknownRequest
	KindSave
	KindExport
	KindTip
)

var kindNames = map[Kind]string{
	KindNone:               "none",
	KindRemember:           "remember",
	KindMalformedRemember:  "malformed_remember",
	KindClearMemory:        "clear_memory",
	KindShowMemory:         "show_memory",
	KindHelp:               "help",
	KindClearChat:          "clear_chat",
	KindVoiceNote:          "voice_note",
	KindNavigate:           "navigate",
	KindUnknownDestination: "unknown_destination",
	KindUnknownRequest:     "unknown_request",
	KindSave:               "save",
	KindExport:             "export",
	KindTip:                "tip",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

// Intent is the classification of one message. Arg carries the navigation
// page, tip topic or voice note; Key and Value belong to KindRemember.
type Intent struct {
	Kind  Kind
	Arg   string
	Key   string
	Value string
}

// Pages reachable by navigation.
const (
	PageDashboard = "Dashboard"
	PageSettings  = "Settings"
	PageAnalytics = "Financial Analytics"
	PageChat      = "Chat Assistant"
)

// VoiceNoteKey is the memory key used by spoken "remember ..." requests.
const VoiceNoteKey = "voice_note"

const rememberPrefix = "/remember "

type keywordRule struct {
	keyword string
	intent  Intent
}

// keywordRules is checked in order and the first keyword contained in the
// utterance wins, wherever it occurs in the text.
var keywordRules = []keywordRule{
	{"help", Intent{Kind: KindHelp}},
	{"clear", Intent{Kind: KindClearChat}},
	{"remember", Intent{Kind: KindVoiceNote}},
	{"dashboard", Intent{Kind: KindNavigate, Arg: PageDashboard}},
	{"settings", Intent{Kind: KindNavigate, Arg: PageSettings}},
	{"analytics", Intent{Kind: KindNavigate, Arg: PageAnalytics}},
	{"chat", Intent{Kind: KindNavigate, Arg: PageChat}},
	{"save", Intent{Kind: KindSave}},
	{"export", Intent{Kind: KindExport}},
	{"budget", Intent{Kind: KindTip, Arg: "budget"}},
	{"invest", Intent{Kind: KindTip, Arg: "invest"}},
	{"savings", Intent{Kind: KindTip, Arg: "savings"}},
	{"expenses", Intent{Kind: KindTip, Arg: "expenses"}},
}

// Keywords returns the voice keyword registry in match order.
func Keywords() []string {
	out := make([]string, len(keywordRules))
	for i, r := range keywordRules {
		out[i] = r.keyword
	}
	return out
}

var navTargets = []struct{ word, page string }{
	{"dashboard", PageDashboard},
	{"settings", PageSettings},
	{"analytics", PageAnalytics},
	{"chat", PageChat},
}

var (
	rememberRe = regexp.MustCompile(`remember\s+(.+)`)
	goToRe     = regexp.MustCompile(`go\s+to\s+(.+)`)
	showRe     = regexp.MustCompile(`show\s+(.+)`)
)

// Classify maps a raw message to an Intent. It has no side effects.
func Classify(ch Channel, text string) Intent {
	if ch == ChannelText && strings.HasPrefix(text, rememberPrefix) {
		return classifyRemember(strings.TrimPrefix(text, rememberPrefix))
	}

	norm := strings.ToLower(strings.TrimSpace(text))
	switch norm {
	case "/clear":
		return Intent{Kind: KindClearMemory}
	case "what do you remember?":
		return Intent{Kind: KindShowMemory}
	}

	if ch != ChannelVoice || norm == "" {
		return Intent{Kind: KindNone}
	}

	for _, r := range keywordRules {
		if strings.Contains(norm, r.keyword) {
			in := r.intent
			if in.Kind == KindVoiceNote {
				in.Arg = voiceNote(norm)
			}
			return in
		}
	}

	if rememberRe.MatchString(norm) {
		return Intent{Kind: KindVoiceNote, Arg: voiceNote(norm)}
	}
	if goToRe.MatchString(norm) {
		for _, t := range navTargets {
			if strings.Contains(norm, t.word) {
				return Intent{Kind: KindNavigate, Arg: t.page}
			}
		}
		return Intent{Kind: KindUnknownDestination}
	}
	if showRe.MatchString(norm) {
		switch {
		case strings.Contains(norm, "help"):
			return Intent{Kind: KindHelp}
		case strings.Contains(norm, "memory"), strings.Contains(norm, "remember"):
			return Intent{Kind: KindShowMemory}
		default:
			return Intent{Kind: KindUnknownRequest}
		}
	}

	return Intent{Kind: KindNone}
}

func classifyRemember(rest string) Intent {
	parts := strings.Split(rest, "=")
	if len(parts) != 2 {
		return Intent{Kind: KindMalformedRemember}
	}
	key, value := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if key == "" {
		return Intent{Kind: KindMalformedRemember}
	}
	return Intent{Kind: KindRemember, Key: key, Value: value}
}

// voiceNote extracts what follows "remember"; empty when nothing does.
func voiceNote(norm string) string {
	m := rememberRe.FindStringSubmatch(norm)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
