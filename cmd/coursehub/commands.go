package main

import (
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"

	"coursehub_backend/client"
	"coursehub_backend/models"
	"coursehub_backend/money"

	"github.com/spf13/cobra"
)

func (a *app) loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "sign in and remember the access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.client().Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			return a.signedIn(res)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (a *app) registerCmd() *cobra.Command {
	var req models.RegisterRequest
	cmd := &cobra.Command{
		Use:   "register",
		Short: "create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.client().Register(cmd.Context(), req)
			if err != nil {
				return err
			}
			return a.signedIn(res)
		},
	}
	cmd.Flags().StringVar(&req.Email, "email", "", "account email")
	cmd.Flags().StringVar(&req.Password, "password", "", "account password (8 characters or more)")
	cmd.Flags().StringVar(&req.FullName, "name", "", "full name")
	cmd.Flags().BoolVar(&req.IsInstructor, "instructor", false, "register as an instructor")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (a *app) signedIn(res models.AuthResponse) error {
	a.token = res.AccessToken
	if err := a.saveSettings(); err != nil {
		return fmt.Errorf("saving token: %w", err)
	}
	fmt.Fprintf(a.out, "signed in as %s\n", res.User.Email)
	return nil
}

func (a *app) coursesCmd() *cobra.Command {
	cmdCourses := &cobra.Command{
		Use:   "courses",
		Short: "browse and create courses",
	}

	var opts client.ListOptions
	cmdList := &cobra.Command{
		Use:   "list",
		Short: "list courses, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			courses, err := a.client().ListCourses(cmd.Context(), opts)
			if err != nil {
				return err
			}
			a.printCourses(courses)
			return nil
		},
	}
	cmdList.Flags().StringVar(&opts.InstructorID, "instructor", "", "only courses by this instructor id")
	cmdList.Flags().IntVar(&opts.Limit, "limit", 0, "maximum number of courses")
	cmdList.Flags().IntVar(&opts.Offset, "offset", 0, "number of courses to skip")

	cmdShow := &cobra.Command{
		Use:   "show <course-id>",
		Short: "show a course and its lessons",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			details, err := a.client().GetCourse(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.printCourse(details)
			return nil
		},
	}

	var in client.CourseInput
	cmdCreate := &cobra.Command{
		Use:   "create",
		Short: "create a new course (instructors only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			course, err := a.client().CreateCourse(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "created course %s (%s)\n", course.ID, course.PriceDisplay)
			return nil
		},
	}
	cmdCreate.Flags().StringVar(&in.Title, "title", "", "course title")
	cmdCreate.Flags().StringVar(&in.Description, "description", "", "course description")
	cmdCreate.Flags().Float64Var(&in.Price, "price", 0, "price, e.g. 19.99")
	cmdCreate.Flags().StringVar(&in.ThumbnailURL, "thumbnail", "", "thumbnail image URL")
	_ = cmdCreate.MarkFlagRequired("title")
	_ = cmdCreate.MarkFlagRequired("description")
	_ = cmdCreate.MarkFlagRequired("price")

	cmdCourses.AddCommand(cmdList, cmdShow, cmdCreate)
	return cmdCourses
}

func (a *app) lessonsCmd() *cobra.Command {
	cmdLessons := &cobra.Command{
		Use:   "lessons",
		Short: "manage course lessons",
	}

	var in client.LessonInput
	cmdAdd := &cobra.Command{
		Use:   "add <course-id>",
		Short: "add a lesson to one of your courses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lesson, err := a.client().CreateLesson(cmd.Context(), args[0], in)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "added lesson %d: %s\n", lesson.Order, lesson.Title)
			return nil
		},
	}
	cmdAdd.Flags().StringVar(&in.Title, "title", "", "lesson title")
	cmdAdd.Flags().StringVar(&in.Description, "description", "", "lesson description")
	cmdAdd.Flags().StringVar(&in.ContentURL, "content-url", "", "URL of the lesson content")
	cmdAdd.Flags().IntVar(&in.Order, "order", 0, "position of the lesson in the course")
	cmdAdd.Flags().StringVar(&in.Kind, "kind", string(models.LessonVideo), "video, document or image")
	_ = cmdAdd.MarkFlagRequired("title")
	_ = cmdAdd.MarkFlagRequired("content-url")
	_ = cmdAdd.MarkFlagRequired("order")

	cmdLessons.AddCommand(cmdAdd)
	return cmdLessons
}

func (a *app) enrollCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enroll <course-id>",
		Short: "enroll in a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.client().Enroll(cmd.Context(), args[0]); err != nil {
				var apiErr *client.APIError
				if errors.As(err, &apiErr) && apiErr.StatusCode == 409 {
					fmt.Fprintln(a.out, "already enrolled")
					return nil
				}
				return err
			}
			fmt.Fprintf(a.out, "enrolled in %s\n", args[0])
			return nil
		},
	}
}

func (a *app) dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "list the courses you take and teach",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dash, err := a.client().Dashboard(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Enrolled courses")
			a.printCourses(dash.EnrolledCourses)
			if len(dash.CreatedCourses) > 0 {
				fmt.Fprintln(a.out)
				fmt.Fprintln(a.out, "Created courses")
				a.printCourses(dash.CreatedCourses)
			}
			return nil
		},
	}
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := a.client().Session(cmd.Context())
			if err != nil {
				return err
			}
			if session.User == nil {
				fmt.Fprintln(a.out, "not signed in")
				return nil
			}
			role := "student"
			if session.User.IsInstructor {
				role = "instructor"
			}
			fmt.Fprintf(a.out, "%s (%s, %s)\n", session.User.Email, session.User.ID, role)
			return nil
		},
	}
}

func (a *app) printCourses(courses []models.CourseResponse) {
	if len(courses) == 0 {
		fmt.Fprintln(a.out, "no courses found")
		return
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tPRICE")
	for _, c := range courses {
		fmt.Fprintf(w, "%s\t%s\t%s\n", c.ID, c.Title, c.PriceDisplay)
	}
	_ = w.Flush()
}

func (a *app) printCourse(d models.CourseDetailsResponse) {
	fmt.Fprintf(a.out, "%s  %s\n", d.Course.Title, money.Format(d.Course.Price))
	fmt.Fprintln(a.out, d.Course.Description)
	fmt.Fprintln(a.out)
	if len(d.Lessons) == 0 {
		fmt.Fprintln(a.out, "no lessons yet")
	}
	for _, l := range d.Lessons {
		fmt.Fprintf(a.out, "%s. %s [%s]\n", strconv.Itoa(l.Order), l.Title, l.Kind)
	}
	if d.Viewer.CanEnroll {
		fmt.Fprintf(a.out, "\nenroll with: coursehub enroll %s\n", d.Course.ID)
	}
}
