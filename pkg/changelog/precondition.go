package changelog

type (
	// Precondition is a predicate evaluated before a changeset is applied.
	Precondition interface {
		// Name identifies the precondition kind (e.g. "sqlCheck").
		Name() string
	}

	// PreconditionContainer groups a changeset's preconditions with the
	// policies applied when one fails or errors.
	PreconditionContainer struct {
		// OnFail selects the behavior when a precondition is not met
		// (e.g. HALT, CONTINUE, MARK_RAN, WARN).
		OnFail string

		// OnError selects the behavior when evaluating a precondition
		// raises an error.
		OnError string

		// OnSQLOutput and OnUpdateSQL control precondition handling when SQL
		// is being generated rather than executed. At most one may be set.
		OnSQLOutput string
		OnUpdateSQL string

		// Nested holds the preconditions themselves, in declaration order.
		Nested []Precondition
	}

	// SQLCheckPrecondition passes when the given SQL, run against the target
	// database, yields ExpectedResult.
	SQLCheckPrecondition struct {
		ExpectedResult string
		SQL            string
	}
)

// AddNested appends a precondition, preserving declaration order.
func (pc *PreconditionContainer) AddNested(p Precondition) {
	pc.Nested = append(pc.Nested, p)
}

func (p *SQLCheckPrecondition) Name() string { return "sqlCheck" }
