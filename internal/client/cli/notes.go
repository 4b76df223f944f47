package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/teaisforme/teataster/internal/client/models"
)

// currentUser resolves the signed-in user's id, telling the user to log in
// when there is no session.
func (a *App) currentUser(ctx context.Context) (int64, bool) {
	sess, err := a.sessions.GetSession(ctx)
	if err != nil {
		fmt.Println("error:", err)
		return 0, false
	}
	if sess == nil {
		fmt.Println("Please login first")
		return 0, false
	}
	return sess.User.ID, true
}

func (a *App) listCategories(ctx context.Context) {
	cats, err := a.categories.GetAll(ctx)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if len(cats) == 0 {
		fmt.Println("No categories cached yet, run 'sync' first")
		return
	}
	for _, c := range cats {
		fmt.Printf("%3d  %-12s %s\n", c.ID, c.Name, c.Description)
	}
}

func (a *App) list(ctx context.Context) {
	userID, ok := a.currentUser(ctx)
	if !ok {
		return
	}

	items, err := a.notes.GetAll(ctx, userID, false)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if len(items) == 0 {
		fmt.Println("No tasting notes yet")
		return
	}
	for _, n := range items {
		dirty := " "
		if n.SyncStatus.Dirty() {
			dirty = "*"
		}
		fmt.Printf("%3d%s %-20s %-15s %s\n", n.ID, dirty, n.Name, n.Brand, ratingStars(n.Rating))
	}
}

func ratingStars(rating int) string {
	s := ""
	for i := 0; i < rating && i < 5; i++ {
		s += "★"
	}
	return s
}

func (a *App) add(ctx context.Context) {
	userID, ok := a.currentUser(ctx)
	if !ok {
		return
	}

	note, err := a.promptNote(&models.TastingNote{})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	if err := a.notes.Add(ctx, note, userID); err != nil {
		fmt.Println("Failed to add note:", err)
		return
	}
	fmt.Printf("Added note %d (pending sync)\n", note.ID)
}

func (a *App) edit(ctx context.Context) {
	userID, ok := a.currentUser(ctx)
	if !ok {
		return
	}

	id, err := GetInt(a.reader, "Note id", os.Stdout)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	existing, err := a.findNote(ctx, userID, id)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if existing == nil {
		fmt.Println("No such note:", id)
		return
	}

	note, err := a.promptNote(existing)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	if err := a.notes.Update(ctx, note, userID); err != nil {
		fmt.Println("Failed to update note:", err)
		return
	}
	fmt.Println("Updated (pending sync)")
}

func (a *App) delete(ctx context.Context) {
	userID, ok := a.currentUser(ctx)
	if !ok {
		return
	}

	id, err := GetInt(a.reader, "Note id", os.Stdout)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	if err := a.notes.MarkForDelete(ctx, id, userID); err != nil {
		fmt.Println("Failed to delete note:", err)
		return
	}
	fmt.Println("Deleted (pending sync)")
}

func (a *App) sync(ctx context.Context) {
	if err := a.synchronizer.Sync(ctx); err != nil {
		fmt.Println("Sync failed:", err)
		return
	}
	fmt.Println("Sync complete")
}

func (a *App) findNote(ctx context.Context, userID, id int64) (*models.TastingNote, error) {
	items, err := a.notes.GetAll(ctx, userID, false)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id {
			return &items[i], nil
		}
	}
	return nil, nil
}

// promptNote asks for each field, keeping the current value when the user
// enters an empty line.
func (a *App) promptNote(base *models.TastingNote) (*models.TastingNote, error) {
	note := *base

	name, err := GetSimpleText(a.reader, fmt.Sprintf("Name [%s]", note.Name), os.Stdout)
	if err != nil {
		return nil, err
	}
	if name != "" {
		note.Name = name
	}

	brand, err := GetSimpleText(a.reader, fmt.Sprintf("Brand [%s]", note.Brand), os.Stdout)
	if err != nil {
		return nil, err
	}
	if brand != "" {
		note.Brand = brand
	}

	text, err := GetSimpleText(a.reader, fmt.Sprintf("Notes [%s]", note.Notes), os.Stdout)
	if err != nil {
		return nil, err
	}
	if text != "" {
		note.Notes = text
	}

	rating, err := GetSimpleText(a.reader, fmt.Sprintf("Rating 1-5 [%d]", note.Rating), os.Stdout)
	if err != nil {
		return nil, err
	}
	if rating != "" {
		n, err := strconv.Atoi(rating)
		if err != nil || n < 1 || n > 5 {
			return nil, fmt.Errorf("rating must be 1-5, got %q", rating)
		}
		note.Rating = n
	}

	category, err := GetSimpleText(a.reader, fmt.Sprintf("Category id [%d]", note.TeaCategoryID), os.Stdout)
	if err != nil {
		return nil, err
	}
	if category != "" {
		id, err := strconv.ParseInt(category, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("not a number: %q", category)
		}
		note.TeaCategoryID = id
	}

	return &note, nil
}
