package llm

import (
	"fmt"

	"github.com/snappy-loop/storybook/internal/models"
)

// storyPrompts holds the story instruction per language. %[1]s is the theme,
// %[2]s the age group. Each prompt is written in its own language so the model
// answers without switching to English.
var storyPrompts = map[models.Language]string{
	models.LanguageHindi: `"%[1]s" के बारे में हिंदी भाषा में एक बेहतरीन कहानी लिखें।
निर्देश:
- केवल हिंदी भाषा का उपयोग करें (अंग्रेजी शब्द बिल्कुल नहीं)
- %[2]s आयु समूह के लिए उपयुक्त
- 6 भागों में कहानी बनाएं
- हर भाग में 60-70 शब्द

JSON format में answer दें:
{
  "title": "हिंदी में कहानी का शीर्षक",
  "chunks": ["पहला भाग...", "दूसरा भाग...", "तीसरा भाग...", "चौथा भाग...", "पांचवा भाग...", "छठा भाग..."]
}
महत्वपूर्ण: केवल JSON return करें, कोई extra text नहीं।`,

	models.LanguageEnglish: `Write an excellent story about "%[1]s" in English language only.
Instructions:
- Use English language ONLY
- Suitable for %[2]s age group
- Create story in 6 parts
- Each part should be 60-70 words

Return in JSON format:
{
  "title": "Story title in English",
  "chunks": ["First part...", "Second part...", "Third part...", "Fourth part...", "Fifth part...", "Sixth part..."]
}
IMPORTANT: Return only JSON, no extra text.`,

	models.LanguageMarathi: `"%[1]s" बद्दल मराठी भाषेत उत्कृष्ट कथा लिहा.
सूचना:
- फक्त मराठी भाषा वापरा (इंग्रजी शब्द बिल्कुल नको)
- %[2]s वयोगटासाठी योग्य
- 6 भागांत कथा तयार करा
- प्रत्येक भागात 60-70 शब्द

JSON format मध्ये उत्तर द्या:
{
  "title": "मराठीत कथेचे शीर्षक",
  "chunks": ["पहिला भाग...", "दुसरा भाग...", "तिसरा भाग...", "चौथा भाग...", "पाचवा भाग...", "सहावा भाग..."]
}
महत्त्वाचे: फक्त JSON return करा, extra text नको.`,

	models.LanguageBengali: `"%[1]s" সম্পর্কে বাংলা ভাষায় একটি চমৎকার গল্প লিখুন।
নির্দেশনা:
- শুধুমাত্র বাংলা ভাষা ব্যবহার করুন (কোন ইংরেজি শব্দ নয়)
- %[2]s বয়সের গ্রুপের জন্য উপযুক্ত
- ৬টি অংশে গল্প তৈরি করুন
- প্রতিটি অংশে ৬০-৭০ শব্দ

JSON ফরম্যাটে উত্তর দিন:
{
  "title": "বাংলায় গল্পের শিরোনাম",
  "chunks": ["প্রথম অংশ...", "দ্বিতীয় অংশ...", "তৃতীয় অংশ...", "চতুর্থ অংশ...", "পঞ্চম অংশ...", "ষষ্ঠ অংশ..."]
}
গুরুত্বপূর্ণ: শুধুমাত্র JSON দিন, অতিরিক্ত লেখা নয়।`,

	models.LanguageTamil: `"%[1]s" பற்றி தமிழ் மொழியில் ஒரு சிறந்த கதை எழுதுங்கள்.
வழிமுறைகள்:
- தமிழ் மொழியை மட்டுமே பயன்படுத்துங்கள் (ஆங்கில வார்த்தைகள் வேண்டாம்)
- %[2]s வயதுக் குழுவிற்கு ஏற்றது
- 6 பகுதிகளில் கதையை உருவாக்குங்கள்
- ஒவ்வொரு பகுதியும் 60-70 வார்த்தைகள்

JSON வடிவத்தில் பதில் கொடுங்கள்:
{
  "title": "தமிழில் கதையின் தலைப்பு",
  "chunks": ["முதல் பகுதி...", "இரண்டாவது பகுதி...", "மூன்றாவது பகுதி...", "நான்காவது பகுதி...", "ஐந்தாவது பகுதி...", "ஆறாவது பகுதி..."]
}
முக்கியம்: JSON மட்டும் கொடுங்கள், கூடுதல் உரை வேண்டாம்.`,

	models.LanguageTelugu: `"%[1]s" గురించి తెలుగు భాషలో ఒక అద్భుతమైన కథ రాయండి.
సూచనలు:
- తెలుగు భాషను మాత్రమే ఉపయోగించండి (ఆంగ్ల పదాలు వద్దు)
- %[2]s వయస్సు గ్రూపుకు తగినది
- 6 భాగాల్లో కథను సృష్టించండి
- ప్రతి భాగంలో 60-70 పదాలు

JSON ఫార్మాట్‌లో సమాధానం ఇవ్వండి:
{
  "title": "తెలుగులో కథ యొక్క శీర్షిక",
  "chunks": ["మొదటి భాగం...", "రెండవ భాగం...", "మూడవ భాగం...", "నాలుగవ భాగం...", "ఐదవ భాగం...", "ఆరవ భాగం..."]
}
ముఖ్యమైనది: JSON మాత్రమే ఇవ్వండి, అదనపు వచనం వద్దు.`,
}

// storyPrompt returns the instruction for lang, English for unsupported languages.
func storyPrompt(theme string, lang models.Language, ageGroup string) string {
	tmpl, ok := storyPrompts[lang]
	if !ok {
		tmpl = storyPrompts[models.LanguageEnglish]
	}
	return fmt.Sprintf(tmpl, theme, ageGroup)
}

// visualPromptTemplate asks for a short English scene description of one chunk.
const visualPromptTemplate = `Convert this story text to an English visual description: "%s"
Create a detailed English image prompt that captures the main scene and characters.
Reply only in English. Keep under 150 characters.`
