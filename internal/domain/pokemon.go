package domain

// Stat names as they appear in Pokemon.Stats and in client payloads.
const (
	StatHP             = "hp"
	StatAttack         = "attack"
	StatDefense        = "defense"
	StatSpecialAttack  = "specialAttack"
	StatSpecialDefense = "specialDefense"
	StatSpeed          = "speed"
	StatWeight         = "weight"
	StatHeight         = "height"
)

// Sprites holds the artwork URLs shown to clients.
type Sprites struct {
	OfficialArtwork string `json:"officialArtwork"`
	BackDefault     string `json:"back_default"`
}

// Pokemon is the simplified subject record assigned to a player for one
// battle. Stats is keyed by the constants above.
type Pokemon struct {
	ID      int            `json:"id"`
	Name    string         `json:"name"`
	Types   []string       `json:"types"`
	Sprites Sprites        `json:"sprites"`
	Stats   map[string]int `json:"stats"`
}
