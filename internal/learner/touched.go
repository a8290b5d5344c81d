package learner

import (
	"github.com/Meesho/BharatMLStack/online-learner/pkg/ds"
)

// touchedKeys is the set of entity keys referenced since the last successful sync.
// It is not safe for concurrent use, the engine guards it with the buffer lock.
type touchedKeys struct {
	set ds.Set[string]
}

func newTouchedKeys() *touchedKeys {
	return &touchedKeys{set: ds.NewOrderedSet[string]()}
}

// touch adds the user, author and topic keys of the features, skipping empty ids
func (t *touchedKeys) touch(features *FeatureVector) {
	for _, ref := range entityRefs(features) {
		t.set.Add(entityKey(ref.entityType, ref.entityID))
	}
}

func (t *touchedKeys) keys() []string {
	return t.set.Keys()
}

func (t *touchedKeys) removeAll(keys []string) {
	t.set.RemoveBatch(keys)
}

func (t *touchedKeys) clear() {
	t.set.Clear()
}

type entityRef struct {
	entityType string
	entityID   string
	scale      float64
}

// entityRefs lists the sparse parameters a sample touches with their gradient scale
func entityRefs(features *FeatureVector) []entityRef {
	refs := make([]entityRef, 0, 2+len(features.ContentTopics))
	if features.UserID != "" {
		refs = append(refs, entityRef{EntityTypeUser, features.UserID, 0.1})
	}
	if features.AuthorID != "" {
		refs = append(refs, entityRef{EntityTypeAuthor, features.AuthorID, 0.1})
	}
	for _, topic := range features.ContentTopics {
		if topic != "" {
			refs = append(refs, entityRef{EntityTypeTopic, topic, 0.05})
		}
	}
	return refs
}
