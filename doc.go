/*
Package protocolfill fills inspection protocol spreadsheets from questionnaire answers.

It takes a set of answers plus a question-to-cell configuration and writes the
values straight into the worksheet markup of a spreadsheet package, keeping
every existing style, merge and extension of the template intact. Calculated
questions are evaluated from their numeric inputs and checked against their
bounds; violations come back as protocol errors for the caller to store.

# Concept

A generation request flows through small, pure components:

  - pkg/calculator evaluates derived values in dependency order (pkg/formula).
  - pkg/mapper turns answers into cell writes following per-type encoding rules.
  - pkg/sheetxml rewrites the worksheet markup cell by cell.
  - pkg/archive swaps the worksheet entry in the package and copies the rest raw.

Nothing in that chain keeps state between requests, so one Engine can serve
concurrent generations. Loading templates and configs, and storing errors, is
done through the ports in pkg/ports.

# Usage

	engine := protocolfill.New(protocolfill.WithLogger(logger))

	res, err := engine.GenerateDocument(ctx, protocolfill.Request{
		Template: tpl,
		Configs:  configs,
		Answers:  domain.Answers{"valve": domain.StringValue("yes")},
		Language: "en",
	})
	if err != nil {
		return err // corrupt template or no usable worksheet
	}
	os.WriteFile("protocol.xlsx", res.Document, 0o644)

Per-cell problems never fail a request. They are logged and listed in
res.Report and res.Warnings.
*/
package protocolfill
