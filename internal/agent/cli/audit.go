package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aricainsights/toucan/internal/agent/survey"
)

// Scan collects system information and prints it without contacting the
// server. With --json the full report is printed instead of the summary.
func (a *App) Scan(ctx context.Context, args []string) error {
	report, err := a.collector.Collect(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "Scan failed: %s\n", err)
		return nil
	}

	if len(args) > 0 && args[0] == "--json" {
		b, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, string(b))
		return nil
	}

	fmt.Fprintln(a.out, report.Summary())
	return nil
}

// Audit runs the audit flow: scan the system, open an audit on the
// platform, and upload the scan. With --dry-run it stops after the scan.
// The questionnaire is a separate step so the user can complete it later.
func (a *App) Audit(ctx context.Context, args []string) error {
	dryRun := len(args) > 0 && args[0] == "--dry-run"

	fmt.Fprintln(a.out, "Collecting system information...")
	report, err := a.collector.Collect(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "Scan failed: %s\n", err)
		return nil
	}
	fmt.Fprintln(a.out, report.Summary())

	if dryRun {
		fmt.Fprintln(a.out, "Dry run: nothing was uploaded.")
		return nil
	}

	auditID, err := a.api.CreateAudit(ctx)
	if err != nil {
		a.reportAPIError(ctx, err)
		return nil
	}
	fmt.Fprintf(a.out, "Audit created: %s\n", auditID)

	if err := a.api.UploadSystemData(ctx, auditID, report); err != nil {
		a.reportAPIError(ctx, err)
		return nil
	}
	fmt.Fprintln(a.out, "System data uploaded.")
	fmt.Fprintf(a.out, "Complete the audit with: questionnaire %s\n", auditID)
	return nil
}

// Questionnaire walks the user through the compliance questionnaire and
// submits the answers for the given audit.
func (a *App) Questionnaire(ctx context.Context, auditID string) error {
	answers := make(map[string]survey.Answer, survey.QuestionCount())

	for _, category := range survey.Categories() {
		fmt.Fprintf(a.out, "\n== %s ==\n%s\n", category.Title, category.Description)

		for _, q := range category.Questions {
			answer, err := a.askQuestion(q)
			if err != nil {
				return err
			}
			answers[q.ID] = answer
		}
	}

	sub, err := survey.NewSubmission(answers)
	if err != nil {
		fmt.Fprintf(a.out, "Questionnaire incomplete: %s\n", err)
		return nil
	}

	if err := a.api.SubmitQuestionnaire(ctx, auditID, sub); err != nil {
		a.reportAPIError(ctx, err)
		return nil
	}
	fmt.Fprintln(a.out, "Questionnaire submitted.")
	return nil
}

// askQuestion prompts until the user gives a parseable answer.
func (a *App) askQuestion(q survey.Question) (survey.Answer, error) {
	for {
		raw, err := getSimpleText(a.reader, fmt.Sprintf("[%s] %s (yes/partial/no/na)", q.ID, q.Text), a.out)
		if err != nil {
			return "", err
		}
		answer, err := survey.ParseAnswer(raw)
		if err != nil {
			fmt.Fprintln(a.out, err)
			continue
		}
		return answer, nil
	}
}
