package parse

import (
	"regexp"
	"strings"

	"github.com/PabloGalante/farum-progress/internal/domain"
)

const distributionMarker = "Distribution:"

var dominantRe = regexp.MustCompile(`([\p{L}]+):[ \t]*(\d+)[ \t]*%`)

func emptyEmotionAnalysis() domain.EmotionAnalysis {
	return domain.EmotionAnalysis{
		Emotions:         []domain.EmotionPoint{},
		DominantEmotions: []domain.DominantEmotion{},
	}
}

// EmotionList reads "timestamp | emotion | value" lines, then dominant
// emotions as "word: NN%" pairs after the "Distribution:" marker.
func EmotionList(text string) domain.EmotionAnalysis {
	return safely("emotion_list", emptyEmotionAnalysis, func() domain.EmotionAnalysis {
		out := emptyEmotionAnalysis()

		timeline, distribution, _ := strings.Cut(normalize(text), distributionMarker)

		for _, l := range lines(timeline) {
			if p, ok := emotionLine(l); ok {
				out.Emotions = append(out.Emotions, p)
			}
		}

		for _, m := range dominantRe.FindAllStringSubmatch(distribution, -1) {
			out.DominantEmotions = append(out.DominantEmotions, domain.DominantEmotion{
				Emotion:    m[1],
				Percentage: domain.ClampProgress(atoiOr(m[2], 0)),
			})
		}
		return out
	})
}

func emotionLine(line string) (domain.EmotionPoint, bool) {
	line = strings.TrimSpace(line)
	if !strings.Contains(line, "|") {
		return domain.EmotionPoint{}, false
	}

	// tolerate markdown table rows: "| 10:00 | calm | 6 |"
	line = strings.Trim(line, "|")
	fields := strings.Split(line, "|")
	if len(fields) < 3 {
		return domain.EmotionPoint{}, false
	}

	emotion := strings.TrimSpace(fields[1])
	if emotion == "" || strings.Trim(emotion, "-: ") == "" {
		return domain.EmotionPoint{}, false
	}

	return domain.EmotionPoint{
		Timestamp: strings.TrimSpace(fields[0]),
		Emotion:   emotion,
		Value:     leadingInt(fields[2], 0),
	}, true
}
