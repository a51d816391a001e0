package scoring

// Competitor is a team as the engine sees it.
type Competitor struct {
	ID            int    `json:"id"`
	CompetitionID int    `json:"competitionID"`
	Name          string `json:"name"`
	Number        int    `json:"number"`
	Class         string `json:"class"`
	Discipline    string `json:"discipline"`
}

// ScoreSheet is a competitor with everything recorded for it, keyed by round.
type ScoreSheet struct {
	Competitor Competitor
	Results    map[int]RoundResult
}

// Result returns the round's result; missing rounds are Unscored.
func (s ScoreSheet) Result(round int) RoundResult {
	if r, ok := s.Results[round]; ok {
		return r
	}
	return RoundResult{}
}

// RoundState summarizes completeness of one round for one class.
type RoundState struct {
	Round    int  `json:"round"`
	Recorded int  `json:"recorded"`
	Total    int  `json:"total"`
	Complete bool `json:"complete"`
}

// EvaluateRound counts the competitors with an outcome for round.
// sheets must hold every competitor of a single class and discipline.
// A class without competitors is never complete.
func EvaluateRound(sheets []ScoreSheet, round int) RoundState {
	st := RoundState{Round: round, Total: len(sheets)}
	for _, s := range sheets {
		if s.Result(round).HasOutcome() {
			st.Recorded++
		}
	}
	st.Complete = st.Total > 0 && st.Recorded == st.Total
	return st
}

// IsRoundComplete reports whether every competitor in sheets has an outcome for round.
func IsRoundComplete(sheets []ScoreSheet, round int) bool {
	return EvaluateRound(sheets, round).Complete
}
