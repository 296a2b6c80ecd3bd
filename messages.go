package server

type joinResponse struct {
	Ver         int         `json:"ver"`
	ID          string      `json:"id"`
	PlayerIndex int         `json:"playerIndex"`
	Balls       []Ball      `json:"balls"`
	Platforms   []Platform  `json:"platforms"`
	Obstacles   []Obstacle  `json:"obstacles"`
	Config      MatchConfig `json:"config"`
}

type stateMessage struct {
	Ver        int           `json:"ver"`
	Type       string        `json:"type"`
	Balls      []Ball        `json:"balls"`
	Platforms  []Platform    `json:"platforms"`
	Obstacles  []Obstacle    `json:"obstacles"`
	Scores     []PlayerScore `json:"scores"`
	Status     MatchStatus   `json:"status"`
	Tick       uint64        `json:"t"`
	ServerTime int64         `json:"serverTime"`
	Config     MatchConfig   `json:"config"`
}

// clientMessage is the union of everything a client may send over the
// socket. Type selects the variant; unused fields stay zero.
type clientMessage struct {
	Type   string `json:"type"`
	Action string `json:"action,omitempty"`
	Down   bool   `json:"down,omitempty"`
	SentAt int64  `json:"sentAt,omitempty"`
}

type heartbeatMessage struct {
	Ver        int    `json:"ver"`
	Type       string `json:"type"`
	ServerTime int64  `json:"serverTime"`
	ClientTime int64  `json:"clientTime,omitempty"`
	RTTMillis  int64  `json:"rtt"`
}

type diagnosticsPlayer struct {
	Ver           int    `json:"ver"`
	ID            string `json:"id"`
	PlayerIndex   int    `json:"playerIndex"`
	LastHeartbeat int64  `json:"lastHeartbeat"`
	RTTMillis     int64  `json:"rttMillis"`
}
