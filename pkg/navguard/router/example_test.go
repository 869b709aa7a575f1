package router_test

import (
	"context"
	"fmt"

	"github.com/BrandonKowalski/navguard/pkg/navguard"
	"github.com/BrandonKowalski/navguard/pkg/navguard/history"
	"github.com/BrandonKowalski/navguard/pkg/navguard/router"
)

// Screen identifiers - use typed constants for compile-time safety
const (
	ScreenHome router.Screen = iota
	ScreenSubjects
	ScreenQuiz
)

// Action enums for each screen
type QuizAction int

const (
	QuizActionBack QuizAction = iota
	QuizActionFinished
)

// Input types - what each screen needs to render
type SubjectsInput struct {
	Subjects []string
}

type QuizInput struct {
	Subject string
}

// Result types - what each screen returns
type SubjectsResult struct {
	Selected string
	Resume   *SubjectsResume
}

type QuizResult struct {
	Action QuizAction
}

// Resume types - position state for back navigation
type SubjectsResume struct {
	SelectedIndex int
}

// Example demonstrates a quiz that asks before the user backs out of it.
func Example() {
	session := history.NewSession(history.Location{Screen: int(ScreenHome)})
	r := router.NewWithSession(session)

	answers := []bool{false, true}
	var guard *navguard.Guard
	guard = navguard.New(session, navguard.Options{
		Policy: navguard.PolicyFunc(func(context.Context, string) (bool, error) {
			answer := answers[0]
			answers = answers[1:]
			fmt.Println("Leave the quiz?", answer)
			return answer, nil
		}),
		OnConfirmedExit: func() {
			fmt.Println("Quiz abandoned")
			guard.SetEnabled(false)
		},
	})
	defer guard.Close()

	r.Register(ScreenSubjects, func(input, resume any) (any, error) {
		in := input.(SubjectsInput)
		if resume != nil {
			fmt.Printf("Subjects: restored to index %d, exiting\n", resume.(*SubjectsResume).SelectedIndex)
			return nil, nil
		}
		fmt.Println("Subjects: selecting", in.Subjects[2])
		return SubjectsResult{Selected: in.Subjects[2], Resume: &SubjectsResume{SelectedIndex: 2}}, nil
	})

	r.Register(ScreenQuiz, func(input, _ any) (any, error) {
		in := input.(QuizInput)
		guard.SetEnabled(true)
		fmt.Println("Quiz:", in.Subject, "- pressing back")
		return QuizResult{Action: QuizActionBack}, nil
	})

	// Define all transitions in one place
	r.OnTransition(func(from router.Screen, result any, stack *router.Stack) (router.Screen, any) {
		switch from {
		case ScreenSubjects:
			res, ok := result.(SubjectsResult)
			if !ok {
				return router.ScreenExit, nil
			}
			stack.SaveResume(res.Resume)
			return ScreenQuiz, QuizInput{Subject: res.Selected}

		case ScreenQuiz:
			if result.(QuizResult).Action == QuizActionBack {
				return router.ScreenBack, nil
			}
			return router.ScreenExit, nil
		}
		return router.ScreenExit, nil
	})

	_ = r.Run(ScreenSubjects, SubjectsInput{Subjects: []string{"Geography", "History", "Fractions"}})
	fmt.Println("Final depth:", session.Depth())

	// Output:
	// Subjects: selecting Fractions
	// Quiz: Fractions - pressing back
	// Leave the quiz? false
	// Quiz: Fractions - pressing back
	// Leave the quiz? true
	// Quiz abandoned
	// Subjects: restored to index 2, exiting
	// Final depth: 2
}
