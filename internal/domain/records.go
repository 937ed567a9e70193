package domain

import "time"

// Member is a fitness-center enrollee.
type Member struct {
	ID    int64
	Name  string
	Email string
	Phone string
}

// MemberInput carries the mutable member fields for create and update.
type MemberInput struct {
	Name  string
	Email string
	Phone string
}

// WorkoutSession is a scheduled activity tied to one member.
type WorkoutSession struct {
	ID          int64
	MemberID    int64
	SessionDate time.Time
	Activity    string
	Duration    int // minutes
}

// WorkoutInput captures a session to be scheduled.
type WorkoutInput struct {
	MemberID    int64
	SessionDate time.Time
	Activity    string
	Duration    int
}
