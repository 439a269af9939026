package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"notefiber-assign-be/internal/dto"
	"notefiber-assign-be/internal/pkg/logger"
	"notefiber-assign-be/internal/repository/memory"
	"notefiber-assign-be/internal/service"
	"notefiber-assign-be/pkg/assign"
	"notefiber-assign-be/pkg/store"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

// Walks a notebook assignment dialog end to end against an in-memory store:
// two notes, one notebook linking both, one linking only the first and one
// linking neither. A single click on the third moves both notes there.
func main() {
	ctx := context.Background()
	color.Cyan("🚀 Assign dialog simulation\n")

	var (
		note1     = uuid.MustParse("00000000-0000-0000-0000-0000000000a1")
		note2     = uuid.MustParse("00000000-0000-0000-0000-0000000000a2")
		notebook1 = uuid.MustParse("00000000-0000-0000-0000-0000000000b1")
		notebook2 = uuid.MustParse("00000000-0000-0000-0000-0000000000b2")
		notebook3 = uuid.MustParse("00000000-0000-0000-0000-0000000000b3")
		userID    = uuid.New()
	)

	rel := memory.NewRelationStore()
	rel.AddContainer(notebook1.String(), "Work")
	rel.AddContainer(notebook2.String(), "Personal")
	rel.AddContainer(notebook3.String(), "Archive")
	must(rel.Link(ctx, notebook1.String(), []string{note1.String(), note2.String()}))
	must(rel.Link(ctx, notebook2.String(), []string{note1.String()}))

	kinds := map[string]*service.RelationKind{
		store.KindNotebook: service.NewInMemoryRelationKind(assign.Kind{
			Name:             store.KindNotebook,
			Nouns:            assign.Nouns{Subject: "note", Container: "notebook"},
			AllowMultiSelect: true,
		}, rel),
	}
	svc := service.NewAssignService(
		kinds,
		memory.NewDialogRepository(time.Minute),
		memory.NewCandidateCache(time.Minute),
		assign.NewSuggestionCache(memory.NewSuggestionStore(time.Hour)),
		nil,
		nil,
		logger.NewNopLogger(),
	)

	color.Yellow("\n1. Open dialog for both notes")
	dialog, err := svc.Open(ctx, userID, &dto.OpenAssignRequest{
		Kind:       store.KindNotebook,
		SubjectIds: []uuid.UUID{note1, note2},
	})
	must(err)
	printDialog(dialog)

	color.Yellow("\n2. Single click on Archive")
	dialog, err = svc.Click(ctx, userID, dialog.Id, &dto.AssignClickRequest{Id: notebook3})
	must(err)
	printDialog(dialog)

	color.Yellow("\n3. Commit")
	res, err := svc.Commit(ctx, userID, dialog.Id)
	must(err)
	color.Green("applied=%d failures=%d", res.Applied, len(res.Failures))
	color.Green("%s", res.Summary)

	color.Yellow("\n4. Relations after commit")
	for _, nb := range []uuid.UUID{notebook1, notebook2, notebook3} {
		titles, _ := rel.Titles(ctx, []string{nb.String()})
		fmt.Printf("  %-8s %d note(s)\n", titles[nb.String()], len(rel.Linked(nb.String())))
	}

	color.Yellow("\n5. Open dialog for a fresh note (suggestion offered)")
	fresh, err := svc.Open(ctx, userID, &dto.OpenAssignRequest{
		Kind:       store.KindNotebook,
		SubjectIds: []uuid.UUID{uuid.New()},
	})
	must(err)
	for _, s := range fresh.Suggestion {
		fmt.Printf("  suggested: %s\n", s.Title)
	}
	must(svc.Cancel(ctx, userID, fresh.Id))
}

func printDialog(d *dto.AssignDialogResponse) {
	fmt.Printf("  dialog %s (multi-select: %t)\n", d.Id, d.IsMultiSelect)
	for _, c := range d.Candidates {
		marker := c.Status
		if c.IsNew {
			marker += " (new)"
		}
		fmt.Printf("  %-8s %s\n", c.Title, marker)
	}
}

func must(err error) {
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
}
