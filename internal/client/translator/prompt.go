package translator

import (
	"fmt"

	"github.com/techurbanist/duread/internal/client/models"
)

const promptTemplate = `You are a Chinese language learning assistant for absolute beginners.

Translate the %s text below into %s and annotate every word.

Text to translate: %q

Reply with one JSON object and nothing else: no markdown, no code fences, no commentary.
{
  "translation": "the translated sentence",
  "pinyin": "pinyin of the whole Chinese sentence with tone marks (ā á ǎ à)",
  "words": [
    {
      "source": "word or phrase as it appears in the source text",
      "chinese": "Chinese characters",
      "pinyin": "pinyin with tone marks",
      "meaning": "English meaning",
      "breakdown": "character components such as 谈(talk) + 判(judge), or null for a single character"
    }
  ]
}

Rules:
- Annotate EVERY word, including the easy ones.
- Explain the characters of every compound word in "breakdown".
- List words in the order of the Chinese sentence.
- Use tone marks in pinyin, never tone numbers.
- Keep "source" equal to words of the input text.`

// Prompt builds the instruction sent for one sentence.
func Prompt(source string, direction models.Direction) string {
	from, to := direction.Languages()
	return fmt.Sprintf(promptTemplate, from, to, source)
}
