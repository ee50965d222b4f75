package handler

type ContextKey string

var (
	SubCtxKey     ContextKey = "sub"
	MemberInfoCtx ContextKey = "memberInfo"
	DateKeyCtx    ContextKey = "dateKey"
	DutyCtx       ContextKey = "duty"
)
