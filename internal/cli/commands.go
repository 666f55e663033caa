package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/Mrugank93/movies/internal/client"
	"github.com/Mrugank93/movies/internal/session"
	"github.com/Mrugank93/movies/pkg/proto"
)

func (a *App) signUp(ctx context.Context, args []string) error {
	return a.authenticate(ctx, "sign-up", args, a.client.SignUp)
}

func (a *App) signIn(ctx context.Context, args []string) error {
	return a.authenticate(ctx, "sign-in", args, a.client.SignIn)
}

func (a *App) authenticate(ctx context.Context, name string, args []string,
	call func(ctx context.Context, email, password string) (*session.Session, error),
) error {
	fs := a.newFlagSet(name)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password (prompted when empty)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if *email == "" {
		return fmt.Errorf("%w: -email is required", ErrUsage)
	}

	pw := *password
	if pw == "" {
		var err error
		if pw, err = a.promptPassword(); err != nil {
			return err
		}
	}

	sess, err := call(ctx, *email, pw)
	if err != nil {
		return err
	}
	if err := a.store.Save(sess); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Signed in as %s\n", sess.Email)
	return nil
}

func (a *App) signOut(ctx context.Context, _ []string) error {
	callErr := a.client.SignOut(ctx)
	if err := a.store.Clear(); err != nil {
		return err
	}
	if callErr != nil {
		return callErr
	}
	fmt.Fprintln(a.out, "Signed out")
	return nil
}

func (a *App) list(ctx context.Context, args []string) error {
	fs := a.newFlagSet("list")
	page := fs.Int("page", 1, "page number, starting at 1")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	resp, err := a.client.ListMovies(ctx, *page)
	if err != nil {
		return err
	}
	return a.printJSON(resp)
}

func (a *App) get(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: get takes exactly one movie id", ErrUsage)
	}
	movie, err := a.client.GetMovie(ctx, args[0])
	if err != nil {
		return err
	}
	return a.printJSON(movie)
}

func (a *App) add(ctx context.Context, args []string) error {
	fs := a.newFlagSet("add")
	title := fs.String("title", "", "movie title")
	year := fs.Int("year", 0, "publishing year")
	imagePath := fs.String("image", "", "poster image file")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if *imagePath == "" {
		return fmt.Errorf("%w: -image is required", ErrUsage)
	}

	image, err := client.EncodeImageFile(*imagePath)
	if err != nil {
		return err
	}
	movie, err := a.client.CreateMovie(ctx, proto.CreateMovie{Title: *title, Year: *year, Image: image})
	if err != nil {
		return err
	}
	return a.printJSON(movie)
}

func (a *App) edit(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] == "" || args[0][0] == '-' {
		return fmt.Errorf("%w: edit takes a movie id before its flags", ErrUsage)
	}
	id := args[0]

	fs := a.newFlagSet("edit")
	title := fs.String("title", "", "new title")
	year := fs.Int("year", 0, "new publishing year")
	imagePath := fs.String("image", "", "new poster image file")
	if err := fs.Parse(args[1:]); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	// Only flags given on the command line are sent.
	var req proto.UpdateMovie
	var encodeErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title":
			req.Title = title
		case "year":
			req.Year = year
		case "image":
			var image string
			image, encodeErr = client.EncodeImageFile(*imagePath)
			req.Image = &image
		}
	})
	if encodeErr != nil {
		return encodeErr
	}
	if req.Title == nil && req.Year == nil && req.Image == nil {
		return fmt.Errorf("%w: edit needs at least one of -title, -year, -image", ErrUsage)
	}

	movie, err := a.client.UpdateMovie(ctx, id, req)
	if err != nil {
		return err
	}
	return a.printJSON(movie)
}
