package model

type GameStatus string

const (
	GameWaiting GameStatus = "waiting"
	GameReady   GameStatus = "ready"
	GameDone    GameStatus = "done"
)
