package service

const (
	visionSystemPrompt = `
You are an image captioning assistant. Describe exactly what the image
contains. If the image contains text, transcribe it verbatim.`

	visionUserPrompt = "Describe this image in detail."

	reasoningSystemPrompt = `
You are a helpful assistant. You are given a textual description of an
image a user uploaded. Answer the user's request based only on that
description.`

	reasoningPromptTemplate = "User uploaded an image containing this: %s"

	defaultQuestion = "Summarize and explain what the image shows."
)
