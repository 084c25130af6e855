package viewmodel

// HomePage holds data for the create-game form.
type HomePage struct {
	Title    string
	Players  string
	Prizes   string
	Specials []SpecialInfo
}

// SpecialInfo describes a special segment in the legend.
type SpecialInfo struct {
	Label string
	Kind  string
}

// GamePage holds data for the main game page template.
type GamePage struct {
	Title     string
	GameID    string
	InviteURL string
	IsHost    bool
	Wheel     WheelFragment
	Turn      TurnFragment
	Board     BoardFragment
	Cue       AudioCue
	// Players and Prizes prefill the host's reset form, one per line.
	Players   string
	Prizes    string
}

// Segment is one slice of the drawn wheel.
type Segment struct {
	Index  int
	Label  string
	Kind   string
	Burned bool
	Active bool
	MidDeg float64
}

// WheelFragment holds data for the wheel panel.
type WheelFragment struct {
	GameID       string
	Segments     []Segment
	Gradient     string
	Rotation     float64
	TransitionMs int64
	Spinning     bool
	Notice       string
}

// Pending is an effect waiting for the host.
type Pending struct {
	Kind    string
	Title   string
	Message string
	Player  string
	Prize   string
	Options []string
	Targets []string
}

// TurnFragment holds data for the turn panel.
type TurnFragment struct {
	GameID        string
	IsHost        bool
	Status        string
	Action        string
	CurrentPlayer string
	Pending       *Pending
	ConfirmAtMs   int64
	Remaining     int
	Total         int
}

// PlayerRow holds one player's line on the board.
type PlayerRow struct {
	Name    string
	Status  string
	Prize   string
	Current bool
}

// BoardFragment holds data for the assignments board.
type BoardFragment struct {
	Players        []PlayerRow
	BurnedPrizes   []string
	BurnedSpecials []string
	Remaining      int
	Total          int
}

// AudioCue tells the page which sound to play. Seq lets clients skip cues
// they already played.
type AudioCue struct {
	Cue string `json:"cue"`
	Seq int    `json:"seq"`
}
