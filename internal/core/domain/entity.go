package domain

import "time"

// EntityType classifies an extracted entity.
type EntityType string

// Entity types. The heuristic extractor only produces EntityTypeOther.
const (
	EntityTypePerson       EntityType = "PERSON"
	EntityTypePlace        EntityType = "PLACE"
	EntityTypeOrganization EntityType = "ORGANIZATION"
	EntityTypeEvent        EntityType = "EVENT"
	EntityTypeEmotion      EntityType = "EMOTION"
	EntityTypeActivity     EntityType = "ACTIVITY"
	EntityTypeOther        EntityType = "OTHER"
)

// IsValid returns true if the entity type is recognised.
func (t EntityType) IsValid() bool {
	switch t {
	case EntityTypePerson, EntityTypePlace, EntityTypeOrganization,
		EntityTypeEvent, EntityTypeEmotion, EntityTypeActivity, EntityTypeOther:
		return true
	default:
		return false
	}
}

// DefaultSalience is the salience given to heuristically extracted links.
const DefaultSalience float32 = 0.5

// Entity is a named thing mentioned across the journal.
// Entities are global and unique by exact (case-sensitive) name.
type Entity struct {
	ID        string
	Type      EntityType
	Name      string
	CreatedAt time.Time
}

// EntityCandidate is an extractor's proposal before it is stored.
type EntityCandidate struct {
	Type EntityType
	Name string
}

// EntityLink ties an entity to an entry.
type EntityLink struct {
	DocumentID string
	EntityID   string
	Salience   float32
}

// EntityMention counts how many entries link to an entity.
type EntityMention struct {
	Entity    Entity
	Documents int
}
