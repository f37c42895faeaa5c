package prompts

import (
	"fmt"
	"strings"
)

const gradingInstructions = `Evaluate this assignment based on the assignment description above. Provide detailed feedback and assign a numerical grade out of 100. If the submission is completely irrelevant to the assignment topic, the grade should be 0. Please start your response with 'Overall Grade: X/100' where X is the numerical grade.`

const DescriptionTemplate = `Please thoroughly grade the following assignment on the topic of %s.
Your evaluation should address the following aspects:
1. **Clarity and Organization:** Assess how clearly the assignment is written and how well the content is structured.
2. **Technical Accuracy and Depth:** Evaluate the correctness and depth of technical details related to %s, including both theoretical understanding and practical application.
3. **Relevance to the Topic:** Check if the assignment covers key points, such as critical issues, innovative approaches, and context-specific challenges relevant to %s.
4. **Analytical Rigor:** Critically analyze the argumentation, supporting data, and reasoning presented.
5. **Overall Coherence:** Consider the logical flow and coherence of the overall assignment.

Please grade the assignment at a %s level and provide a numerical grade out of 100 along with detailed, constructive feedback highlighting both strengths and areas for improvement.
Make sure that the provided assignment work or extract aligns with the topic correctly.`

// Description renders the standard grading rubric for a topic and
// difficulty level.
func Description(topic, difficulty string) string {
	return strings.TrimSpace(fmt.Sprintf(DescriptionTemplate, topic, topic, topic, difficulty))
}

// Grading assembles the complete oracle prompt: the assignment description,
// an optional supplementary context extract, the combined submission work,
// and the grading instruction tail the grade parser depends on.
func Grading(description, supplement, work string) string {
	var b strings.Builder
	b.WriteString(description)
	b.WriteString("\n")
	if supplement != "" {
		b.WriteString(supplement)
		b.WriteString("\n")
	}
	b.WriteString("Assignment Work: ")
	b.WriteString(work)
	b.WriteString("\n\n")
	b.WriteString(gradingInstructions)
	return b.String()
}
