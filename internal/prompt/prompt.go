// Package prompt assembles the natural-language prompts sent to the content
// generator. Everything here is a pure function of its inputs: no storage, no
// network, identical output for identical input.
package prompt

import (
	"strings"
)

// StudentProfile is the slice of a student record that prompts need.
type StudentProfile struct {
	Name           string
	Accommodations string
	Needs          string
}

func renderProfiles(profiles []StudentProfile) string {
	lines := make([]string, 0, len(profiles))
	for _, p := range profiles {
		profile := "- " + p.Name
		if p.Accommodations != "" {
			profile += "\n  Accommodations: " + p.Accommodations
		}
		if p.Needs != "" {
			profile += "\n  Needs: " + p.Needs
		}
		lines = append(lines, profile)
	}
	return strings.Join(lines, "\n")
}

// Suggestions builds the phase-2 prompt asking for differentiation
// suggestions as a JSON array. standardsBlock is the rendered curriculum
// selection and may be empty.
func Suggestions(material string, profiles []StudentProfile, standardsBlock string) string {
	var b strings.Builder
	b.WriteString("You are an expert in educational differentiation for students with IEPs, 504 plans, and special accommodations.\n\n")
	b.WriteString("ORIGINAL LESSON/ASSIGNMENT:\n")
	b.WriteString(material)
	b.WriteString("\n\nSTUDENT PROFILES:\n")
	b.WriteString(renderProfiles(profiles))
	if standardsBlock != "" {
		b.WriteString("\n\n")
		b.WriteString(standardsBlock)
	}
	b.WriteString(`

Your task is to analyze this lesson and the student profiles, then generate specific, actionable differentiation suggestions. For each suggestion:
1. Explain what modification should be made
2. Indicate which student(s) would benefit from this modification

Format your response as a JSON array of objects, where each object has:
- "text": the suggestion text
- "applies_to": array of student names this applies to

Example format:
[
    {"text": "Provide a code template with pre-written class structure and comments", "applies_to": ["Jane D.", "504 Group"]},
    {"text": "Add a glossary defining 'class', 'object', 'method', and 'constructor'", "applies_to": ["Mike K."]}
]

Focus on practical, concrete modifications that address the specific needs listed in the student profiles. Consider:
- Breaking down complex tasks into smaller steps
- Providing scaffolding and templates
- Adding visual aids or examples
- Simplifying language while maintaining rigor
- Offering alternative ways to demonstrate understanding
- Adjusting time requirements or deadlines

Return ONLY the JSON array, no other text.`)
	return b.String()
}

// FinalContent builds the phase-4 prompt asking for the polished lesson that
// folds in every approved suggestion.
func FinalContent(material string, approvedTexts []string) string {
	bullets := make([]string, 0, len(approvedTexts))
	for _, t := range approvedTexts {
		bullets = append(bullets, "- "+t)
	}

	var b strings.Builder
	b.WriteString("You are an expert in educational differentiation. Create a final, polished version of this lesson that incorporates all the approved modifications.\n\n")
	b.WriteString("ORIGINAL LESSON:\n")
	b.WriteString(material)
	b.WriteString("\n\nAPPROVED MODIFICATIONS TO INCORPORATE:\n")
	b.WriteString(strings.Join(bullets, "\n"))
	b.WriteString(`

Create a complete, ready-to-use lesson document that:
1. Maintains the core learning objectives
2. Seamlessly integrates all the approved modifications
3. Is clearly organized and easy to follow
4. Preserves academic rigor while being accessible
5. Uses clear, professional formatting with headers and sections
6. Includes proper indentation for any code examples
7. Makes the content print-friendly and easy to read

IMPORTANT: Format your response in clean markdown. Use:
- Headers (# ## ###) for sections
- Code blocks with proper indentation for code examples
- Lists for step-by-step instructions
- Bold and italic for emphasis where appropriate

Do NOT wrap your response in markdown code fences (` + "```" + `). Just provide the formatted content directly.`)
	return b.String()
}
