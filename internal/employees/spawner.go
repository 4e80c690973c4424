// Applicant spawning: names, skill and asking wage for job seekers.
package employees

import (
	"github.com/google/uuid"

	"github.com/talgya/greenkeeper/internal/entropy"
)

// Applicant is a job seeker answering a posting.
type Applicant struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Role       Role       `json:"role"`
	Skill      SkillLevel `json:"skill"`
	AskingWage float64    `json:"asking_wage"`
	ArrivedAt  float64    `json:"arrived_at"` // absolute game minute
	ExpiresAt  float64    `json:"expires_at"`
}

// Spawner creates applicants.
type Spawner struct {
	rng entropy.Source
}

// NewSpawner creates an applicant spawner drawing from src.
func NewSpawner(src entropy.Source) *Spawner {
	return &Spawner{rng: src}
}

// Spawn creates one applicant for a role at the given absolute minute.
func (s *Spawner) Spawn(role Role, now float64) Applicant {
	skill := s.weightedSkill()
	// Asking wage wanders ±10% around the level rate.
	wage := WageFor(role, skill) * entropy.Between(s.rng, 0.9, 1.1)
	return Applicant{
		ID:         uuid.NewString(),
		Name:       s.generateName(),
		Role:       role,
		Skill:      skill,
		AskingWage: float64(int(wage*100+0.5)) / 100,
		ArrivedAt:  now,
		ExpiresAt:  now + applicantPatience,
	}
}

// Most applicants are trainees; masters are rare.
func (s *Spawner) weightedSkill() SkillLevel {
	r := s.rng.Float64()
	switch {
	case r < 0.55:
		return Trainee
	case r < 0.85:
		return Experienced
	case r < 0.97:
		return Expert
	default:
		return Master
	}
}

func (s *Spawner) generateName() string {
	var firsts []string
	if s.rng.Float64() < 0.5 {
		firsts = maleNames
	} else {
		firsts = femaleNames
	}
	first := firsts[s.rng.Intn(len(firsts))]
	last := lastNames[s.rng.Intn(len(lastNames))]
	return first + " " + last
}

var maleNames = []string{
	"Aldric", "Bram", "Cedric", "Doran", "Erik", "Finn", "Gareth",
	"Hugo", "Ivan", "Jasper", "Leif", "Magnus", "Nils", "Oswin",
	"Quinn", "Rowan", "Stellan", "Theo", "Walt", "Zander",
}

var femaleNames = []string{
	"Astrid", "Brenna", "Calla", "Daria", "Elara", "Freya", "Greta",
	"Helene", "Iris", "Juno", "Kira", "Lena", "Mira", "Nessa",
	"Petra", "Runa", "Thea", "Vera", "Willa", "Yara",
}

var lastNames = []string{
	"Ashford", "Birch", "Calder", "Dunmore", "Ellery", "Fairway",
	"Greenwood", "Hollins", "Ives", "Kettering", "Langley", "Marsh",
	"Norwood", "Oakes", "Pembrook", "Reed", "Sandell", "Thorne",
	"Underhill", "Whitcombe",
}
