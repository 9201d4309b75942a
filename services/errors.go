package services

import (
	"errors"
	"fmt"
)

// Общие ошибки сервисов, используемые в маппинге HTTP.
var (
	// Ошибки валидации
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnsupportedFormat = fmt.Errorf("%w: unsupported competition format", ErrInvalidInput)

	// Жизненный цикл соревнования
	ErrAlreadyScheduled = errors.New("competition already has a schedule")
	ErrNotInDraft       = errors.New("competition is not in draft")
	ErrNoSchedule       = errors.New("competition has no schedule to activate")

	// Продвижение по сетке
	ErrNotReadyToAdvance    = errors.New("round is not ready to advance: some matches have no confirmed result")
	ErrBracketComplete      = errors.New("bracket is complete: the final has been played")
	ErrNotKnockout          = errors.New("competition format does not use knockout advancement")
	ErrRoundAlreadyAdvanced = errors.New("next round already exists")

	// Не найдено / конфликты
	ErrCompetitionNotFound = errors.New("competition not found")
	ErrRoundNotFound       = errors.New("round not found")
	ErrTeamAlreadyEntered  = errors.New("team is already entered in this competition")
	ErrTeamNotEntered      = errors.New("team is not entered in this competition")
)
