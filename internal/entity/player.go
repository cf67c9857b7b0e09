package entity

// Players records which mark belongs to each side for the current round.
type Players struct {
	Human    Mark `json:"human"`
	Computer Mark `json:"computer"`
}

// AssignMarks gives X to whoever starts the round.
func AssignMarks(computerFirst bool) Players {
	if computerFirst {
		return Players{Human: PlayerO, Computer: PlayerX}
	}

	return Players{Human: PlayerX, Computer: PlayerO}
}

func (that Players) IsAssigned() bool {
	return that.Human.IsPlayer() && that.Computer == that.Human.Opponent()
}

func (that Players) ComputerStarts() bool {
	return that.Computer == PlayerX
}
