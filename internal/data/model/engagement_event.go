package model

import (
	"errors"
	"strings"

	"github.com/Meesho/BharatMLStack/online-learner/internal/learner"
)

var ErrMissingEngagementType = errors.New("engagement_type is empty")

// EngagementEvent is the envelope published by the engagement tracker
type EngagementEvent struct {
	KafkaMetaData       KafkaMetaData       `json:"meta"`
	EngagementEventData EngagementEventData `json:"data"`
}

type KafkaMetaData struct {
	RequestId        string `json:"requestId"`
	RequestTimestamp string `json:"requestTimestamp"`
}

type EngagementEventData struct {
	Payload EngagementPayload `json:"payload"`
}

type EngagementPayload struct {
	EngagementType string                `json:"engagement_type"`
	Features       learner.FeatureVector `json:"features"`
}

func (p EngagementPayload) Validate() error {
	if strings.TrimSpace(p.EngagementType) == "" {
		return ErrMissingEngagementType
	}
	return nil
}
