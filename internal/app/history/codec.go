package history

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/PabloGalante/farum-progress/internal/domain"
)

var errShape = errors.New("record shape mismatch")

type jsonKind int

const (
	kindMissing jsonKind = iota
	kindString
	kindArray
	kindObject
	kindOther
)

func kindOf(raw json.RawMessage) jsonKind {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return kindMissing
	}
	switch raw[0] {
	case '"':
		return kindString
	case '[':
		return kindArray
	case '{':
		return kindObject
	default:
		return kindOther
	}
}

type recordShape struct {
	SessionSummary   json.RawMessage `json:"sessionSummary"`
	Goals            json.RawMessage `json:"goals"`
	Improvements     json.RawMessage `json:"improvements"`
	Timestamp        json.RawMessage `json:"timestamp"`
	EmotionalJourney json.RawMessage `json:"emotionalJourney"`
}

type improvementsShape struct {
	Strengths       json.RawMessage `json:"strengths"`
	Challenges      json.RawMessage `json:"challenges"`
	Recommendations json.RawMessage `json:"recommendations"`
}

type journeyShape struct {
	Emotions         json.RawMessage `json:"emotions"`
	DominantEmotions json.RawMessage `json:"dominantEmotions"`
	EngagementLevel  json.RawMessage `json:"engagementLevel"`
}

// decodeHistory decodes a stored history. A payload that is not a JSON list
// yields no records; list elements that fail the shape check are dropped.
func decodeHistory(raw string) ([]domain.ProgressRecord, int) {
	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &elems); err != nil {
		return []domain.ProgressRecord{}, 0
	}

	out := make([]domain.ProgressRecord, 0, len(elems))
	dropped := 0
	for _, e := range elems {
		rec, err := decodeRecord(e)
		if err != nil {
			dropped++
			continue
		}
		out = append(out, rec)
	}
	return out, dropped
}

func decodeRecord(raw json.RawMessage) (domain.ProgressRecord, error) {
	if kindOf(raw) != kindObject {
		return domain.ProgressRecord{}, fmt.Errorf("%w: not an object", errShape)
	}

	var shape recordShape
	if err := json.Unmarshal(raw, &shape); err != nil {
		return domain.ProgressRecord{}, err
	}
	if err := expect(
		field{"sessionSummary", shape.SessionSummary, kindString},
		field{"goals", shape.Goals, kindArray},
		field{"improvements", shape.Improvements, kindObject},
		field{"timestamp", shape.Timestamp, kindString},
		field{"emotionalJourney", shape.EmotionalJourney, kindObject},
	); err != nil {
		return domain.ProgressRecord{}, err
	}

	var imp improvementsShape
	if err := json.Unmarshal(shape.Improvements, &imp); err != nil {
		return domain.ProgressRecord{}, err
	}
	if err := expect(
		field{"improvements.strengths", imp.Strengths, kindArray},
		field{"improvements.challenges", imp.Challenges, kindArray},
		field{"improvements.recommendations", imp.Recommendations, kindArray},
	); err != nil {
		return domain.ProgressRecord{}, err
	}

	var ej journeyShape
	if err := json.Unmarshal(shape.EmotionalJourney, &ej); err != nil {
		return domain.ProgressRecord{}, err
	}
	if err := expect(
		field{"emotionalJourney.emotions", ej.Emotions, kindArray},
		field{"emotionalJourney.dominantEmotions", ej.DominantEmotions, kindArray},
		field{"emotionalJourney.engagementLevel", ej.EngagementLevel, kindArray},
	); err != nil {
		return domain.ProgressRecord{}, err
	}

	var rec domain.ProgressRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return domain.ProgressRecord{}, err
	}
	return rec, nil
}

type field struct {
	name string
	raw  json.RawMessage
	want jsonKind
}

func expect(fields ...field) error {
	for _, f := range fields {
		if kindOf(f.raw) != f.want {
			return fmt.Errorf("%w: %s", errShape, f.name)
		}
	}
	return nil
}
