package learner

import (
	"math"
	"time"
)

const (
	UserEngagementRate      = "user_engagement_rate"
	ContentLengthNormalized = "content_length_normalized"
	ContentAgeHours         = "content_age_hours"
	SocialProofScore        = "social_proof_score"
	AuthorUserAffinity      = "author_user_affinity"
	TopicSimilarityScore    = "topic_similarity_score"
	TemporalMatchScore      = "temporal_match_score"
	CommunitySizeFactor     = "community_size_factor"
	PersonalizationStrength = "personalization_strength"
	DiscoveryBoost          = "discovery_boost"

	numFeatures = 10
)

// FeatureNames is the fixed order of the dense model features
var FeatureNames = [numFeatures]string{
	UserEngagementRate,
	ContentLengthNormalized,
	ContentAgeHours,
	SocialProofScore,
	AuthorUserAffinity,
	TopicSimilarityScore,
	TemporalMatchScore,
	CommunitySizeFactor,
	PersonalizationStrength,
	DiscoveryBoost,
}

const (
	EntityTypeUser   = "user"
	EntityTypeAuthor = "author"
	EntityTypeTopic  = "topic"
)

// FeatureVector is the ranking feature record of one candidate, produced upstream
type FeatureVector struct {
	UserEngagementRate      float64  `json:"user_engagement_rate"`
	ContentLengthNormalized float64  `json:"content_length_normalized"`
	ContentAgeHours         float64  `json:"content_age_hours"`
	SocialProofScore        float64  `json:"social_proof_score"`
	AuthorUserAffinity      float64  `json:"author_user_affinity"`
	TopicSimilarityScore    float64  `json:"topic_similarity_score"`
	TemporalMatchScore      float64  `json:"temporal_match_score"`
	CommunitySizeFactor     float64  `json:"community_size_factor"`
	PersonalizationStrength float64  `json:"personalization_strength"`
	DiscoveryBoost          float64  `json:"discovery_boost"`
	UserID                  string   `json:"user_id"`
	AuthorID                string   `json:"author_id"`
	ContentTopics           []string `json:"content_topics"`
}

// values returns the numeric features in FeatureNames order
func (f *FeatureVector) values() [numFeatures]float64 {
	return [numFeatures]float64{
		f.UserEngagementRate,
		f.ContentLengthNormalized,
		f.ContentAgeHours,
		f.SocialProofScore,
		f.AuthorUserAffinity,
		f.TopicSimilarityScore,
		f.TemporalMatchScore,
		f.CommunitySizeFactor,
		f.PersonalizationStrength,
		f.DiscoveryBoost,
	}
}

// TrainingSample is one recorded engagement. Samples are never mutated after creation.
type TrainingSample struct {
	Features   FeatureVector `json:"features"`
	Engagement float64       `json:"engagement"`
	Timestamp  time.Time     `json:"timestamp"`
	// Weight is the intensity weight at creation, 1 + engagement score
	Weight float64 `json:"weight"`
}

const recencyDecay = time.Hour

// WeightAt returns the sample weight decayed by exp(-age/1h) at now
func (s TrainingSample) WeightAt(now time.Time) float64 {
	age := now.Sub(s.Timestamp)
	if age < 0 {
		age = 0
	}
	return s.Weight * math.Exp(-float64(age)/float64(recencyDecay))
}

// PendingUpdate is a sparse update applied to the store and staged for the next sync
type PendingUpdate struct {
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Embedding  []float32 `json:"embedding"`
	Gradient   []float32 `json:"gradient"`
	Timestamp  time.Time `json:"timestamp"`

	// version increases on every write to the key, so a sync can tell whether the entry
	// it flushed was rewritten meanwhile
	version uint64
}

func (p PendingUpdate) Key() string {
	return entityKey(p.EntityType, p.EntityID)
}

func entityKey(entityType, entityID string) string {
	return entityType + ":" + entityID
}
