package pipeline

// Fixed user-facing messages for terminal pipeline states. These are part
// of the product surface; tests and clients match on them verbatim.
const (
	// ModerationBlockedMessage is returned when the query fails moderation.
	ModerationBlockedMessage = "I'm sorry, but I can't assist with that kind of request. Moderation has flagged the content as inappropriate."

	// NoRelevantInformationMessage is returned when retrieval found nothing
	// the judge considered relevant.
	NoRelevantInformationMessage = "I couldn't find information in the uploaded documents that's relevant to your question. Please try asking about topics that are covered in your documents."

	// NoDocumentsMessage is returned when answer generation has no
	// documents to work from.
	NoDocumentsMessage = "I don't have any documents to base my answer on."

	// NotInContextMessage is the sentence the model is instructed to give
	// when the context does not contain the answer.
	NotInContextMessage = "I don't have enough information in the documents to answer that question."

	// generationErrorFormat wraps a generation failure into an answer.
	generationErrorFormat = "I encountered an error while generating the answer: %s"

	// processingErrorFormat wraps an unexpected pipeline failure into an answer.
	processingErrorFormat = "I encountered an error while processing your request: %s"
)
