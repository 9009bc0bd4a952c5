package summarize

import (
	"fmt"
	"strings"

	"github.com/walteh/narrate/pkg/extract"
)

// Prompt input limits, in characters.
const (
	CodeExcerptChars    = 4000
	SampleExcerptChars  = 1500
	fallbackAnalysis    = "data analysis"
	fallbackAnalysisHow = "data analysis with an unknown specific focus"
)

func lines(parts ...string) string {
	return strings.Join(parts, "\n")
}

// CodePrompt asks for a summary of a source file.
func CodePrompt(language, code string) string {
	return lines(
		fmt.Sprintf("Analyze this %s code and provide a concise summary (maximum 200 words) of:", language),
		"1. What the code does",
		"2. Key functions/classes",
		"3. Any important algorithms or techniques used",
		"",
		"CODE:",
		extract.Prefix(code, CodeExcerptChars),
	)
}

// NotebookPrompt asks for a notebook summary seeded with extracted content.
func NotebookPrompt(analysisType string, info extract.NotebookInfo, headings []extract.Heading, markdownSample, codeSample string) string {
	if analysisType == "" {
		analysisType = fallbackAnalysis
	}
	titles := make([]string, 0, 5)
	for i, h := range headings {
		if i == 5 {
			break
		}
		titles = append(titles, h.Text)
	}
	return lines(
		"Analyze this Jupyter notebook content and provide a concise summary (maximum 250 words) of:",
		fmt.Sprintf("1. The main purpose/topic of the notebook (seems to be %s)", analysisType),
		"2. Key analyses or visualizations it contains",
		"3. The main findings or conclusions (if apparent)",
		"",
		"Key libraries used: "+strings.Join(info.Imports, ", "),
		"",
		"NOTEBOOK HEADINGS:",
		strings.Join(titles, ", "),
		"",
		"NOTEBOOK SAMPLE:",
		"",
		"Markdown cells:",
		extract.Prefix(markdownSample, SampleExcerptChars),
		"",
		"Code cells:",
		extract.Prefix(codeSample, SampleExcerptChars),
	)
}

// ImagePrompt asks for a guess at what a plot shows from its file name.
func ImagePrompt(name string) string {
	return lines(
		fmt.Sprintf("This is a data visualization image named %q from a data science project.", name),
		"Based only on the filename, what might this visualization be showing?",
		"Provide a brief, educated guess (2-3 sentences) about what information this plot might be visualizing.",
	)
}

// WorkbookPrompt asks for the likely role of a workbook from its sheet names.
func WorkbookPrompt(name string, sheets []string) string {
	return lines(
		fmt.Sprintf("This Excel file %q has the following sheets: %s.", name, strings.Join(sheets, ", ")),
		"Based on this information and considering the context of a data analysis project,",
		"what insights or data might this file contain? What role might it play in the analysis?",
		"Please provide a brief hypothesis (3-4 sentences).",
	)
}

// CSVPrompt asks for an interpretation keyed on column names.
func CSVPrompt(name string, columns []string) string {
	return lines(
		fmt.Sprintf("This CSV file %q appears to contain data with columns: %s.", name, strings.Join(columns, ", ")),
		"Based on the file name and column headers, what kind of data might this contain?",
		"What insights could it provide to the overall analysis?",
		"Please provide a brief hypothesis (3-4 sentences).",
	)
}

// DocumentPrompt asks for a summary of a Word document.
func DocumentPrompt(name string, headings []string, sample string) string {
	if len(headings) > 5 {
		headings = headings[:5]
	}
	return lines(
		fmt.Sprintf("This document %q has the following structure and content:", name),
		"",
		"Headings: "+strings.Join(headings, ", "),
		"",
		"Sample content:",
		extract.Prefix(sample, SampleExcerptChars),
		"",
		"Based on this information, provide a concise summary (maximum 200 words) of what this document appears to contain and its significance to the project.",
	)
}

// MarkdownPrompt asks for a summary of a markdown file.
func MarkdownPrompt(name, content string) string {
	return lines(
		fmt.Sprintf("This Markdown file %q contains the following content:", name),
		"",
		extract.Prefix(content, SampleExcerptChars),
		"",
		"Please provide a concise summary (maximum 150 words) of what this document contains and its purpose in the project.",
	)
}

// ExecutiveSummaryPrompt asks for the executive summary of the project tree.
func ExecutiveSummaryPrompt(structure string) string {
	return lines(
		"Generate a concise executive summary for a data science project with the following structure:",
		"",
		structure,
		"",
		"Include:",
		"1. A clear description of the project's main objective",
		"2. The analytical methods used",
		"3. Key findings discovered",
		"4. High-level recommendations",
		"",
		"Make it concise (200-250 words) but informative, written in a professional and executive tone.",
	)
}

// OverviewPrompt asks for a detailed project overview.
func OverviewPrompt(structure string) string {
	return lines(
		"Generate a detailed description for a data science project with the following structure:",
		"",
		structure,
		"",
		"Include:",
		"1. High-level description of the project's purpose",
		"2. The main components and their purpose",
		"3. The analytical workflow evident from the directory structure",
		"4. What kind of results are present",
		"",
		"Make it detailed and insightful (250-300 words), with a professional and technical focus.",
	)
}

// ConclusionPrompt asks for the report conclusion from detected topics and terms.
func ConclusionPrompt(topics, terms []string) string {
	analysis := "This project appears to involve " + fallbackAnalysisHow + "."
	if len(topics) > 0 {
		analysis = fmt.Sprintf("This project appears to involve %s.", strings.Join(topics, ", "))
	}
	termText := "No specific domain terms were identified in the project."
	if len(terms) > 0 {
		termText = fmt.Sprintf("Key terms identified in the project include: %s.", strings.Join(terms, ", "))
	}
	return lines(
		"Based on analysis of this data science project:",
		"",
		analysis,
		termText,
		"",
		"Generate a detailed and professional conclusion (around 350 words) that:",
		"1. Summarizes the apparent purpose and scope of the project",
		"2. Highlights the key analytical approaches used",
		"3. Suggests the potential implications of the findings",
		"4. Recommends possible next steps or areas for further investigation",
		"",
		"Make it professional, insightful, and action-oriented, as if it were the conclusion section of a formal executive report.",
		"Focus particularly on insights related to "+topicText(topics)+".",
	)
}

// RecommendationsPrompt asks for five concrete next steps.
func RecommendationsPrompt(topics, terms []string) string {
	termText := "unknown terms"
	if len(terms) > 0 {
		if len(terms) > 5 {
			terms = terms[:5]
		}
		termText = strings.Join(terms, ", ")
	}
	return lines(
		"Based on this project involving "+topicText(topics),
		"and focusing on terms like "+termText+",",
		"provide a list of 5 concrete recommendations to improve or expand the analysis.",
		"",
		"Each recommendation should be specific, actionable, and relevant to the type of analysis performed.",
		"Focus on technical, methodological, and results presentation aspects.",
		"Make each recommendation 2-3 sentences, starting with an action verb.",
	)
}

func topicText(topics []string) string {
	if len(topics) == 0 {
		return fallbackAnalysis
	}
	return strings.Join(topics, ", ")
}
