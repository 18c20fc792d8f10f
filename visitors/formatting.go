package visitors

// Pretty renders each clause of the outermost statement on its own line.
// Nested statements stay on one line.
//
//	SELECT "users"."id"
//	FROM "users"
//	WHERE "users"."active" = $1
func Pretty() Option {
	return func(v *Visitor) {
		v.pretty = true
	}
}

func (v *Visitor) EnterStatement() { v.depth++ }

func (v *Visitor) LeaveStatement() { v.depth-- }

func (v *Visitor) PushClause(keyword string) {
	if v.pretty && v.depth == 1 {
		v.PushSQL("\n" + keyword + " ")
		return
	}
	v.PushSQL(" " + keyword + " ")
}
