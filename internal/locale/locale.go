// Package locale holds the two supported reply languages and every
// user-facing string in both of them.
package locale

import (
	"fmt"
	"strings"
)

type Lang string

const (
	English Lang = "english"
	Hausa   Lang = "hausa"
)

// Default is used when the caller does not send a language.
const Default = English

type Key int

const (
	MsgInvalidImage Key = iota
	MsgUnsupportedFormat
	MsgMissingImage
	MsgInvalidLang
	MsgUpstreamFailed
	MsgInternal
	MsgCleared
	MsgSendPhoto
	MsgLangSet
	MsgNotAllowed
	MsgImageTooLarge
)

var messages = map[Key]map[Lang]string{
	MsgInvalidImage: {
		English: "Please upload a valid image of hen feces.",
		Hausa:   "Da fatan za a loda hoto mai inganci na kashin kaza.",
	},
	MsgUnsupportedFormat: {
		English: "Only JPEG or PNG images are supported.",
		Hausa:   "Hotunan JPEG ko PNG kawai ake karɓa.",
	},
	MsgMissingImage: {
		English: "An image is required.",
		Hausa:   "Ana buƙatar hoto.",
	},
	MsgInvalidLang: {
		English: "Unsupported language. Use 'english' or 'hausa'.",
		Hausa:   "Harshen da ba a tallafa ba. Yi amfani da 'english' ko 'hausa'.",
	},
	MsgUpstreamFailed: {
		English: "The diagnosis service is unavailable right now. Please try again later.",
		Hausa:   "Sabis ɗin gano cuta ba ya samuwa a yanzu. Da fatan za a sake gwadawa daga baya.",
	},
	MsgInternal: {
		English: "Error processing request.",
		Hausa:   "Kuskure wajen sarrafa buƙata.",
	},
	MsgCleared: {
		English: "Conversation history cleared. Ready for a new case.",
		Hausa:   "An share tarihin tattaunawa. A shirye don sabon lamari.",
	},
	MsgSendPhoto: {
		English: "Please send a photo of the hen feces first.",
		Hausa:   "Da fatan za a fara aiko da hoton kashin kaza.",
	},
	MsgLangSet: {
		English: "I will reply in English.",
		Hausa:   "Zan amsa da Hausa.",
	},
	MsgNotAllowed: {
		English: "This chat is not allowed to use the bot.",
		Hausa:   "Ba a ba wannan tattaunawa izinin amfani da bot ɗin ba.",
	},
	MsgImageTooLarge: {
		English: "The image is too large. Please send a smaller photo.",
		Hausa:   "Hoton ya yi girma da yawa. Da fatan za a aiko da ƙaramin hoto.",
	},
}

// Parse maps a raw language tag to a Lang. An empty tag yields Default.
func Parse(raw string) (Lang, error) {
	switch Lang(strings.ToLower(strings.TrimSpace(raw))) {
	case "":
		return Default, nil
	case English:
		return English, nil
	case Hausa:
		return Hausa, nil
	default:
		return "", fmt.Errorf("unsupported language %q", raw)
	}
}

// Text returns the message for key in lang, falling back to English.
func Text(lang Lang, key Key) string {
	variants, ok := messages[key]
	if !ok {
		return ""
	}
	if s, ok := variants[lang]; ok {
		return s
	}
	return variants[English]
}

// Name is the human name of the language, used inside model instructions.
func (l Lang) Name() string {
	if l == Hausa {
		return "Hausa"
	}
	return "English"
}

const welcome = "Welcome to the poultry droppings diagnosis API. " +
	"POST an image to /chat with optional user_message, user_reply and lang (english|hausa). " +
	"POST /clear to start a new case.\n" +
	"Barka da zuwa API na gano cututtukan kaji ta hanyar kashi. " +
	"Aika hoto zuwa /chat tare da user_message, user_reply da lang (english|hausa). " +
	"Aika zuwa /clear don fara sabon lamari."

// Welcome is the bilingual usage message served at the root path.
func Welcome() string { return welcome }
