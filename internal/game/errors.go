package game

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means an agent is not seated in the ring.
	ErrNotFound = errors.New("agent not found")
	// ErrPileEmpty means nobody is waiting on the elimination pile.
	ErrPileEmpty = fmt.Errorf("%w: elimination pile is empty", ErrNotFound)
	// ErrInvalidArgument rejects bad directions and step counts.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrRuleViolation rejects commands the rules forbid, such as a robbery
	// by anyone but the poorest agent.
	ErrRuleViolation = errors.New("rule violation")
	// ErrGameOver is returned once a single agent remains.
	ErrGameOver = errors.New("game over")
)
