package llm

import "fmt"

// NoAnswerReply is returned when retrieval finds nothing relevant; it is
// also what the answer prompt instructs the model to say when unsure.
const NoAnswerReply = "I cannot find this in the documents."

const graderSystem = `You are a grader assessing relevance of a retrieved document to a user question. ` +
	`If the document contains keywords related to the user question, grade it as relevant. ` +
	`It does not need to be a stringent test. The goal is to filter out erroneous retrievals. ` +
	`Give a binary score 'YES' or 'NO' to indicate whether the document is relevant to the question. ` +
	`Provide the binary score as a JSON with a single key 'score' and no preamble or explanation.`

const answerSystem = `You are an assistant for question-answering tasks. ` +
	`Use the following pieces of retrieved context to answer the question. ` +
	`If you don't know the answer, just say that you don't know. ` +
	`Use three sentences maximum and keep the answer concise and to the point.`

// GraderPrompt builds the retrieval-grader prompt pair for one document.
// The model replies with {"score": "YES"} or {"score": "NO"}.
func GraderPrompt(question, document string) (system, user string) {
	user = fmt.Sprintf("Here is the retrieved document:\n\n%s\n\nHere is the user question: %s", document, question)
	return graderSystem, user
}

// AnswerPrompt builds the answer-generation prompt pair.
func AnswerPrompt(question, context string) (system, user string) {
	user = fmt.Sprintf("Question: %s\n\nContext:\n%s\n\nAnswer:", question, context)
	return answerSystem, user
}
