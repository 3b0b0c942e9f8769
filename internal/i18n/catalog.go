// Package i18n holds the server-sent conversational strings for the four
// supported locales. Arabic is the default, matching the original product.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// Messages is the set of user-facing strings the gateway emits on its own
// behalf (everything else comes from the model).
type Messages struct {
	Welcome      string
	Analyzing    string
	Listening    string
	AIError      string
	AccessDenied string
}

var supported = []language.Tag{
	language.Arabic, // default
	language.English,
	language.French,
	language.Spanish,
}

var matcher = language.NewMatcher(supported)

var catalogs = map[language.Tag]Messages{
	language.Arabic: {
		Welcome:      "أنا هنا لمساعدتك في بناء فكرتك. أخبرني باسم المشروع، بريدك الإلكتروني، وما الذي تريد بناءه لنبدأ فوراً!",
		Analyzing:    "أقوم الآن بتحليل فكرتك وتوليد الكود... ثوانٍ قليلة!",
		Listening:    "أنا أستمع إليك...",
		AIError:      "حدث خطأ في الاتصال بالذكاء الاصطناعي. حاول مرة أخرى.",
		AccessDenied: "كلمة المرور غير صحيحة.",
	},
	language.English: {
		Welcome:      "I'm here to help you build your idea. Tell me the project name, your email, and what you want to build to get started!",
		Analyzing:    "I am analyzing your idea and generating code... Just a few seconds!",
		Listening:    "I'm listening...",
		AIError:      "Error connecting to AI. Please try again.",
		AccessDenied: "Incorrect password.",
	},
	language.French: {
		Welcome:      "Je suis là pour vous aider à concrétiser votre idée. Donnez-moi le nom du projet, votre e-mail et ce que vous voulez construire pour commencer !",
		Analyzing:    "J'analyse votre idée et je génère le code... Quelques secondes !",
		Listening:    "Je vous écoute...",
		AIError:      "Erreur de connexion à l'IA. Veuillez réessayer.",
		AccessDenied: "Mot de passe incorrect.",
	},
	language.Spanish: {
		Welcome:      "Estoy aquí para ayudarte a construir tu idea. ¡Dime el nombre del proyecto, tu correo y qué quieres construir para empezar!",
		Analyzing:    "Estoy analizando tu idea y generando el código... ¡Solo unos segundos!",
		Listening:    "Te escucho...",
		AIError:      "Error al conectar con la IA. Inténtalo de nuevo.",
		AccessDenied: "Contraseña incorrecta.",
	},
}

// Lookup resolves a BCP 47 tag (or a bare "en"/"fr"-style code) to the
// closest supported locale's messages. Unknown or empty input falls back
// to Arabic.
func Lookup(lang string) Messages {
	tag := Match(lang)
	return catalogs[tag]
}

// Match returns the supported tag closest to lang.
func Match(lang string) language.Tag {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return supported[0]
	}
	desired, _, err := language.ParseAcceptLanguage(lang)
	if err != nil || len(desired) == 0 {
		return supported[0]
	}
	_, idx, _ := matcher.Match(desired...)
	return supported[idx]
}
