package review

import (
	"fmt"
	"strings"
)

// summaryPrompt is the fixed structural prompt for literature-review summaries.
// The section list and per-section instructions are part of the product
// contract; changing them changes what every summary looks like.
const summaryPrompt = `You are an AI assistant specializing in creating detailed summaries of academic documents for literature reviews.
Your task is to summarize the document following these EXACT guidelines:

1. Identify the main theories or concepts discussed

Instruction:
List only the theories, frameworks, or core concepts explicitly mentioned in the text.
For each one, provide a one-sentence definition based only on the paper's explanation, not external knowledge.

2. Summarize the key findings from relevant studies

Instruction:
Extract the findings the paper attributes to previous research.
Do not generalize or add new findings.
Present each finding as a short bullet (<=15 words), citing the study name or number when possible.

3. Highlight areas of agreement or consensus in the research

Instruction:
Identify points where multiple studies or the authors consistently agree.
Only include consensus explicitly stated or strongly implied in the text.
Summaries must be <=1 sentence per point.

4. Summarize the methodologies used in the research

Instruction:
Describe the research methods used in this paper only, not in other studies.
Mention only what is explicitly written: e.g., literature review, conceptual framework, case references.
Keep the description objective and concise.

5. Provide an overview of the potential implications of the research

Instruction:
List 3-5 implications clearly grounded in the authors' claims (not speculation).
Explain implications in terms of impact on:
- manufacturing
- AI/ML
- system design
- future agentic systems (if mentioned)

6. Suggest possible directions for future research based on the current literature

Instruction:
Only include directions that the authors mention or logically follow from explicitly identified gaps/challenges.
Phrase each direction as a research question or actionable direction.

7. If the paper describes an architecture, explain it stepwise

Instruction:
Describe the architecture exactly as defined in the paper, without adding components not mentioned.
Break the architecture into steps/modules in the order used by the paper.
Provide:
- a one-sentence purpose of the architecture
- step-by-step description
- a short note on how each module interacts

8. Mathematical Aspects (if applicable)

Instruction:
Describe and explain the key mathematical models, theorems, or equations used in the paper.
For each equation, format it in LaTeX style using: $equation$

Document text:
%s`

// answerPrompt constrains the model to the assembled context. The summary is
// placed first and labeled so the model checks it before the chunks.
const answerPrompt = `You are an AI research assistant. Use the provided context from research papers to answer the question as accurately as possible.

IMPORTANT: The context includes a Document Summary section at the beginning. Check the summary FIRST - it contains key information about the document including mathematical equations, concepts, and findings.

Instructions:
1. First, check the Document Summary section - it often contains the answer you need.
2. Then check the document chunks for additional details.
3. If the question asks about a concept mentioned in the summary, use that information to answer.
4. Include mathematical formulations, equations, or examples if they are in the context.
5. Explain the concept clearly based on what the context says.
6. Only respond with "The information is not available in the provided context" if you cannot find the answer anywhere in the context.

Context: %s
Question: %s
Answer:`

// fullTextPrompt sends the whole paper with the question, no retrieval.
const fullTextPrompt = `You are an AI research assistant. Based on the following research paper, answer the user's question in detail.

Question: %s

Instructions:
1. Analyze the full paper text to find the answer.
2. Provide a comprehensive and detailed answer based on what is written in the paper.
3. Include specific details, examples, mathematical formulations, or equations if mentioned in the paper.
4. If the question asks about research gaps, contributions, methodology, findings, or conclusions, provide detailed information from the paper.
5. Cite specific sections or concepts from the paper when relevant.
6. Only respond with "The information is not available in the provided paper" if you cannot find the answer anywhere in the paper text.

Research Paper Text:
%s

Answer:`

const (
	summaryHeader = "=== DOCUMENT SUMMARY (Check this first) ==="
	summaryFooter = "=== END OF SUMMARY ==="
	chunksHeader  = "=== DOCUMENT CHUNKS ==="
)

// buildIndexedContext assembles the answer context: the labeled summary first,
// then the retrieved chunks in retrieval order.
func buildIndexedContext(summary string, chunks []string) string {
	var sb strings.Builder
	sb.WriteString(summaryHeader)
	sb.WriteString("\n\n")
	sb.WriteString(summary)
	sb.WriteString("\n\n")
	sb.WriteString(summaryFooter)
	sb.WriteString("\n\n")
	sb.WriteString(chunksHeader)
	sb.WriteString("\n")
	for _, ch := range chunks {
		sb.WriteString("\n")
		sb.WriteString(ch)
		sb.WriteString("\n")
	}
	return sb.String()
}

func buildSummaryPrompt(text string) string {
	return fmt.Sprintf(summaryPrompt, text)
}

func buildAnswerPrompt(context, question string) string {
	return fmt.Sprintf(answerPrompt, context, question)
}

func buildFullTextPrompt(fullText, question string) string {
	return fmt.Sprintf(fullTextPrompt, question, fullText)
}
