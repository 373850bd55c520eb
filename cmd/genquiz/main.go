package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"genquiz"
)

func main() {
	var (
		topic        = flag.String("topic", "", "Quiz topic (required)")
		numQuestions = flag.Int("questions", genquiz.DefaultQuestions, "Number of questions to generate (3-15)")
		difficulty   = flag.String("difficulty", string(genquiz.DefaultDifficulty), "Difficulty level (easy, medium, hard)")
		outputFile   = flag.String("output", "", "Output file for quiz JSON (default: stdout)")
		apiKey       = flag.String("api-key", "", "API key (or set GENQUIZ_API_KEY / GEMINI_API_KEY / OPENAI_API_KEY)")
		provider     = flag.String("provider", "", "Generative backend: gemini or openai")
		model        = flag.String("model", "", "Model name (default depends on provider)")
		llmLog       = flag.String("llm-log", "", "Directory for per-quiz LLM transcripts")
		configPath   = flag.String("config", "", "Optional config file")
		playMode     = flag.Bool("play", false, "Play the quiz interactively")
		verbose      = flag.Bool("verbose", false, "Enable verbose debugging output")
	)

	flag.Parse()

	genquiz.SetVerbose(*verbose)

	cfg, err := genquiz.LoadConfig(*configPath)
	if err != nil {
		genquiz.Log().Fatalf("Failed to load config: %v", err)
	}
	if *verbose || cfg.Verbose {
		genquiz.SetVerbose(true)
	}

	if *apiKey != "" {
		cfg.APIKey = *apiKey
	}
	if *provider != "" {
		if *provider != cfg.Provider && *model == "" {
			cfg.Model = ""
		}
		cfg.Provider = *provider
	}
	if *model != "" {
		cfg.Model = *model
	}
	if *llmLog != "" {
		cfg.LLMLogDir = *llmLog
	}
	if err := cfg.Normalize(); err != nil {
		genquiz.Log().Fatalf("Invalid config: %v", err)
	}

	if cfg.APIKey == "" {
		genquiz.Log().Fatal("API key is required. Use -api-key flag or set GENQUIZ_API_KEY environment variable.")
	}

	level, err := genquiz.ParseDifficulty(*difficulty)
	if err != nil {
		genquiz.Log().Fatal(err)
	}
	quizCfg := genquiz.QuizConfig{Topic: *topic, Difficulty: level, Count: *numQuestions}
	if err := quizCfg.Validate(); err != nil {
		genquiz.Log().Fatalf("%v. Use -topic and -questions flags.", err)
	}

	service, err := genquiz.NewServiceFromConfig(cfg)
	if err != nil {
		genquiz.Log().Fatalf("Failed to create service: %v", err)
	}

	if *playMode {
		playQuiz(service, quizCfg, cfg.QuestionSeconds())
		return
	}

	genquiz.VerboseLog("Starting quiz generation for topic: %s", quizCfg.Topic)
	genquiz.VerboseLog("Target questions: %d, Difficulty: %s, Provider: %s (%s)",
		quizCfg.Count, quizCfg.Difficulty, cfg.Provider, cfg.Model)

	ctx, cancel := context.WithTimeout(context.Background(), genquiz.GenerationTimeout)
	defer cancel()

	questions, err := service.GenerateQuiz(ctx, quizCfg)
	if err != nil {
		genquiz.Log().Fatalf("Failed to generate quiz: %v", err)
	}

	output, err := json.MarshalIndent(questions, "", "  ")
	if err != nil {
		genquiz.Log().Fatalf("Failed to marshal quiz: %v", err)
	}

	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, output, 0644); err != nil {
			genquiz.Log().Fatalf("Failed to write output file: %v", err)
		}
		genquiz.Log().Infof("Quiz saved to: %s", *outputFile)
	} else {
		fmt.Println(string(output))
	}

	genquiz.VerboseLog("Quiz generation completed successfully!")
}
