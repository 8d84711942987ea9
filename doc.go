// Package promptgen turns XML prompt template documents into saved prompts.
//
// A generation loads a template document from the template directory, parses
// it into a generic node tree, extracts the intermediate template model,
// renders the template with a caller-supplied context and writes the result
// to the output directory as <prefix>_<YYYYMMDD_HHMMSS>.txt.
//
//	location, err := promptgen.Generate(ctx, "comprehensive_task_template.xml",
//		map[string]any{"task_type": "code_generation", "complexity": "advanced"},
//		promptgen.WithTemplateDir("templates"),
//		promptgen.WithOutputDir("outputs"),
//	)
package promptgen
