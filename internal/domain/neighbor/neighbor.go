// Package neighbor holds the raw hits returned by a nearest-neighbor search.
package neighbor

// OwnerUnknown is the owner id reported when the metadata has no owner for a photo.
const OwnerUnknown int64 = -1

// Record is a single nearest-neighbor hit resolved against the index metadata.
type Record struct {
	score    float64
	petID    int64
	ownerID  int64
	hasOwner bool
	url      string
}

// New creates a record with a known owner.
func New(score float64, petID, ownerID int64, url string) Record {
	return Record{score: score, petID: petID, ownerID: ownerID, hasOwner: true, url: url}
}

// NewWithoutOwner creates a record whose owner is not recorded in the metadata.
func NewWithoutOwner(score float64, petID int64, url string) Record {
	return Record{score: score, petID: petID, ownerID: OwnerUnknown, url: url}
}

// Score returns the similarity score (higher is more similar).
func (r Record) Score() float64 { return r.score }

// PetID returns the identifier of the pet that owns the reference photo.
func (r Record) PetID() int64 { return r.petID }

// OwnerID returns the owner identifier, or OwnerUnknown when HasOwner is false.
func (r Record) OwnerID() int64 { return r.ownerID }

// HasOwner reports whether the metadata carried an owner id.
func (r Record) HasOwner() bool { return r.hasOwner }

// URL returns the reference to the source image.
func (r Record) URL() string { return r.url }
