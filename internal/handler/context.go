package handler

type ContextKey string

var (
	TeamCtx ContextKey = "team"
)
