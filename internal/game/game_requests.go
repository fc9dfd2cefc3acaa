package game

type CreateGameRequest struct {
	Address    string `json:"address"`
	Commitment string `json:"commitment"`
}

type JoinGameRequest struct {
	Address    string `json:"address"`
	Commitment string `json:"commitment"`
}

type RevealRequest struct {
	Address string `json:"address"`
	Reveal  string `json:"reveal"`
}
