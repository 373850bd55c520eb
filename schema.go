package genquiz

import "github.com/sashabaranov/go-openai/jsonschema"

// QuestionSchema declares the shape the service must return: a list of questions
// with all five fields required.
var QuestionSchema = &jsonschema.Definition{
	Type:        jsonschema.Array,
	Description: "Multiple choice quiz questions",
	Items: &jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"id": {
				Type:        jsonschema.String,
				Description: "Identifier unique within the quiz",
			},
			"question": {
				Type:        jsonschema.String,
				Description: "The question text",
			},
			"options": {
				Type:        jsonschema.Array,
				Items:       &jsonschema.Definition{Type: jsonschema.String},
				Description: "Array of 4 multiple choice options",
			},
			"correctAnswerIndex": {
				Type:        jsonschema.Integer,
				Description: "0-based index of the correct answer",
			},
			"explanation": {
				Type:        jsonschema.String,
				Description: "Brief explanation of why the answer is correct",
			},
		},
		Required:             []string{"id", "question", "options", "correctAnswerIndex", "explanation"},
		AdditionalProperties: false,
	},
}

const questionSchemaName = "quiz_questions"
