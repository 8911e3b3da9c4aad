package llm

import (
	"fmt"
	"strings"

	"github.com/snappy-loop/storybook/internal/models"
)

// cannedStory is a hand-authored story used when the text API output is unusable.
// %[1]s in the title or chunks is replaced with the theme.
type cannedStory struct {
	title  string
	chunks [models.ChunksPerStory]string
}

var cannedStories = map[models.Language]cannedStory{
	models.LanguageEnglish: {
		title: "The Amazing Adventure of %[1]s",
		chunks: [models.ChunksPerStory]string{
			"The magical story of %[1]s begins in an extraordinary world.",
			"During this journey, the main character meets unique companions.",
			"The story contains mysterious elements that gradually unfold.",
			"Challenges become difficult but courage continues growing.",
			"The final challenge proves most difficult to overcome.",
			"The story concludes with joy as characters learn valuable lessons.",
		},
	},
	models.LanguageHindi: {
		title: "%[1]s की अद्भुत यात्रा",
		chunks: [models.ChunksPerStory]string{
			"%[1]s की यह जादुई कहानी एक अनोखी दुनिया से शुरू होती है।",
			"यात्रा के दौरान मुख्य पात्र कई अनूठे लोगों से मिलता है।",
			"कहानी में कई रहस्यमय तत्व धीरे-धीरे सामने आते हैं।",
			"चुनौतियां कठिन होती जाती हैं लेकिन साहस बढ़ता जाता है।",
			"अंतिम चुनौती सबसे कठिन साबित होती है।",
			"कहानी खुशी के साथ समाप्त होती है और सभी सीख प्राप्त करते हैं।",
		},
	},
}

// fillerChunks extend a short story. %[1]d is the chapter number, %[2]s the theme.
var fillerChunks = map[models.Language]string{
	models.LanguageHindi:   "अध्याय %[1]d में %[2]s की कहानी और भी रोचक हो जाती है।",
	models.LanguageEnglish: "Chapter %[1]d makes the story of %[2]s even more fascinating.",
	models.LanguageMarathi: "प्रकरण %[1]d मध्ये %[2]s ची कथा अधिकच मनोरंजक होते.",
	models.LanguageBengali: "অধ্যায় %[1]d-এ %[2]s-এর গল্প আরও আকর্ষণীয় হয়ে ওঠে।",
	models.LanguageTamil:   "அத்தியாயம் %[1]d-இல் %[2]s கதை இன்னும் சுவாரசியமாகிறது.",
	models.LanguageTelugu:  "అధ్యాయం %[1]dలో %[2]s కథ మరింత ఆసక్తికరంగా మారుతుంది.",
}

// FallbackStory returns the canned story for lang, English when lang has none.
func FallbackStory(theme string, lang models.Language) (string, []string) {
	story, ok := cannedStories[lang]
	if !ok {
		story = cannedStories[models.LanguageEnglish]
	}
	chunks := make([]string, len(story.chunks))
	for i, c := range story.chunks {
		chunks[i] = expandTheme(c, theme)
	}
	return expandTheme(story.title, theme), chunks
}

// fillerChunk returns a synthetic chunk for chapter n.
func fillerChunk(theme string, lang models.Language, n int) string {
	tmpl, ok := fillerChunks[lang]
	if !ok {
		tmpl = fillerChunks[models.LanguageEnglish]
	}
	return fmt.Sprintf(tmpl, n, theme)
}

// expandTheme substitutes theme for %[1]s; strings without the verb are returned unchanged.
func expandTheme(s, theme string) string {
	if strings.Contains(s, "%[1]s") {
		return fmt.Sprintf(s, theme)
	}
	return s
}
