package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"genquiz"
)

const optionLetters = "ABCD"

// parseOption accepts a letter (A-D) or a 1-based number
func parseOption(input string) (int, error) {
	input = strings.ToUpper(strings.TrimSpace(input))
	if len(input) != 1 {
		return 0, fmt.Errorf("invalid option %q", input)
	}
	if i := strings.Index(optionLetters, input); i >= 0 {
		return i, nil
	}
	if input[0] >= '1' && input[0] <= '4' {
		return int(input[0] - '1'), nil
	}
	return 0, fmt.Errorf("invalid option %q", input)
}

// readLines feeds stdin to the quiz loop so the countdown keeps running while
// the player thinks. The channel closes at EOF.
func readLines(r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()
	return lines
}

func playQuiz(service genquiz.QuizService, cfg genquiz.QuizConfig, seconds int) {
	fmt.Printf("🎯 Starting interactive quiz on: %s\n", cfg.Topic)
	fmt.Printf("📝 Questions: %d, Difficulty: %s, %ds per question\n", cfg.Count, cfg.Difficulty, seconds)
	fmt.Println("⏳ Generating questions... (this may take a moment)")
	fmt.Println()

	session := genquiz.NewSession(service)
	if err := session.Start(context.Background(), cfg); err != nil {
		genquiz.Log().Fatalf("Failed to start quiz: %v", err)
	}
	if session.Status() != genquiz.StatusPlaying {
		genquiz.VerboseLog("Generation error: %v", session.LastErr())
		genquiz.Log().Fatal(session.Error())
	}

	answered := make(chan genquiz.UserAnswer, 1)
	play := genquiz.NewPlay(session.Questions(), seconds, genquiz.PlayHooks{
		OnTick: func(index, timeLeft int) {
			if timeLeft == 10 || (timeLeft > 0 && timeLeft <= 5) {
				fmt.Printf("   ⏱  %ds left\n", timeLeft)
			}
		},
		OnAnswer: func(index int, a genquiz.UserAnswer) {
			answered <- a
		},
		OnFinish: func(answers []genquiz.UserAnswer) {
			if err := session.Finish(answers); err != nil {
				genquiz.Log().WithError(err).Warn("Finish rejected")
			}
		},
	})
	defer play.Close()

	runPlay(play, readLines(os.Stdin), answered, os.Stdout)

	printResults(session.Results(), genquiz.FetchFeedback(context.Background(), service, session.Results(), cfg.Topic))
}

// runPlay asks every question in turn until the play-through finishes
func runPlay(play *genquiz.Play, lines <-chan string, answered <-chan genquiz.UserAnswer, w io.Writer) {
	play.Start()

	for {
		state := play.State()
		if state.Finished {
			return
		}

		fmt.Fprintf(w, "Question %d/%d:\n", state.Index+1, state.Total)
		fmt.Fprintf(w, "%s\n\n", state.Question.Question)
		for i, option := range state.Question.Options {
			fmt.Fprintf(w, "%c) %s\n", optionLetters[i], option)
		}
		fmt.Fprintln(w)
		fmt.Fprint(w, "Your answer (A/B/C/D): ")

		a := waitForAnswer(play, lines, answered, w)
		q := state.Question

		fmt.Fprintln(w)
		switch {
		case a.TimedOut():
			fmt.Fprintf(w, "⌛ Time's up! The correct answer is %c) %s\n", optionLetters[q.CorrectAnswerIndex], q.CorrectOption())
		case a.IsCorrect:
			fmt.Fprintln(w, "✅ Correct!")
		default:
			fmt.Fprintf(w, "❌ Incorrect. The correct answer is %c) %s\n", optionLetters[q.CorrectAnswerIndex], q.CorrectOption())
		}
		if q.Explanation != "" {
			fmt.Fprintf(w, "💡 Explanation: %s\n", q.Explanation)
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, strings.Repeat("─", 50))
		fmt.Fprintln(w)

		if err := play.Next(); err != nil {
			genquiz.Log().WithError(err).Error("Could not advance")
			return
		}
	}
}

func waitForAnswer(play *genquiz.Play, lines <-chan string, answered <-chan genquiz.UserAnswer, w io.Writer) genquiz.UserAnswer {
	for {
		select {
		case a := <-answered:
			return a
		case line, ok := <-lines:
			if !ok {
				// stdin is gone; let the countdown run out
				lines = nil
				continue
			}
			option, err := parseOption(line)
			if err != nil {
				fmt.Fprint(w, "Please enter A, B, C, or D: ")
				continue
			}
			if a, ok := play.Answer(option); ok {
				// OnAnswer has already queued it
				<-answered
				return a
			}
		}
	}
}

func printResults(res genquiz.Results, feedback string) {
	fmt.Println("🎉 Quiz completed!")
	fmt.Printf("\n🏆 Score: %d/%d (%d%%) - %s\n", res.CorrectCount, res.Total, res.ScorePercentage, res.Rank)
	fmt.Printf("💬 %s\n\n", feedback)

	fmt.Println("📋 Review:")
	for _, item := range res.Review {
		mark := "✅"
		if !item.Correct() {
			mark = "❌"
		}
		fmt.Printf("%s %d. %s\n", mark, item.Number, item.Question.Question)
		switch {
		case item.Answer == nil:
			fmt.Printf("     Not answered. Correct answer: %s\n", item.Question.CorrectOption())
		case item.TimedOut():
			fmt.Printf("     You ran out of time. Correct answer: %s\n", item.Question.CorrectOption())
		case !item.Correct():
			fmt.Printf("     You answered: %s. Correct answer: %s\n", item.SelectedOption(), item.Question.CorrectOption())
		}
	}
}
