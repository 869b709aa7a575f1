// Package router provides screen navigation over a shared session history.
//
// Screens are registered by identifier and a single transition function decides where
// each completed screen leads. Navigation is recorded in a history.Session, the same
// history a navguard.Guard watches, so back navigation out of a guarded activity is
// confirmed before it happens.
//
// # Basic Usage
//
//	const (
//	    ScreenSubjects router.Screen = iota
//	    ScreenQuiz
//	)
//
//	session := history.NewSession(history.Location{Screen: int(ScreenSubjects)})
//	r := router.NewWithSession(session)
//	guard := navguard.New(session, navguard.Options{Policy: policy})
//
//	r.Register(ScreenSubjects, func(input, resume any) (any, error) {
//	    return subjectsScreen(input.(SubjectsInput), resume), nil
//	})
//	r.Register(ScreenQuiz, func(input, resume any) (any, error) {
//	    guard.SetEnabled(true)
//	    return quizScreen(input.(QuizInput), guard), nil
//	})
//
//	r.OnTransition(func(from router.Screen, result any, stack *router.Stack) (router.Screen, any) {
//	    switch from {
//	    case ScreenSubjects:
//	        res := result.(SubjectsResult)
//	        stack.SaveResume(res.Resume)
//	        return ScreenQuiz, QuizInput{Subject: res.Subject}
//	    case ScreenQuiz:
//	        res := result.(QuizResult)
//	        switch res.Action {
//	        case QuizActionBack:
//	            return router.ScreenBack, nil // guarded: the user is asked first
//	        case QuizActionExited:
//	            return router.ScreenCurrent, nil // guard.Back() already moved
//	        }
//	    }
//	    return router.ScreenExit, nil
//	})
//
//	r.Run(ScreenSubjects, SubjectsInput{})
//
// # Resume State
//
// Screens can save resume state (like scroll position) on their history entry before
// navigating forward. When the user comes back to that entry, the state is passed to the
// screen function as its resume argument. Resume is nil on a fresh visit.
package router
