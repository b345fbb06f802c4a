package view

import (
	"context"
	"io"

	"github.com/roach88/storefront/internal/form"
	"github.com/roach88/storefront/internal/model"
)

// StudentApplied is the confirmation shown after a student application.
const StudentApplied = "Application submitted! We'll verify your student status and send you the discount code within 24-48 hours."

// OurStoryPage is static brand copy.
type OurStoryPage struct{}

// OurStory builds the brand story page.
func (v *Views) OurStory() *OurStoryPage {
	return &OurStoryPage{}
}

// Title implements Page.
func (p *OurStoryPage) Title() string { return "our-story" }

// Load implements Page.
func (p *OurStoryPage) Load(context.Context) {}

// Render implements Page.
func (p *OurStoryPage) Render(w io.Writer) error {
	out := &errWriter{w: w}
	out.line("OUR STORY")
	out.blank()
	out.line("Preetizen began with a simple belief: fashion should make room for everyone.")
	out.line("We work with local artisans in small, purposeful batches, choosing fabrics and")
	out.line("packaging that are kind to the planet. Our Wildflower Collection celebrates every")
	out.line("body, every style and every story, with no labels, just authentic expression.")
	out.blank()
	out.line("[ Shop Wildflower Collection: /collections ]")
	return out.err
}

// StudentProgramPage describes the student discount and takes applications.
type StudentProgramPage struct {
	notice string
}

// StudentProgram builds the student discount page.
func (v *Views) StudentProgram() *StudentProgramPage {
	return &StudentProgramPage{}
}

// Title implements Page.
func (p *StudentProgramPage) Title() string { return "student-program" }

// Load implements Page.
func (p *StudentProgramPage) Load(context.Context) {}

// Apply validates an application. Nothing is sent anywhere.
func (p *StudentProgramPage) Apply(app form.StudentApplication) model.Result {
	if err := form.Validate(app); err != nil {
		p.notice = "Please fill in every field"
		return model.Failure(p.notice, err)
	}
	p.notice = StudentApplied
	return model.Success(StudentApplied)
}

// Render implements Page.
func (p *StudentProgramPage) Render(w io.Writer) error {
	out := &errWriter{w: w}
	out.line("STYLE SMARTER. SAVE BETTER.")
	out.line("Introducing the Preetizen Student Program")
	out.blank()
	out.line("We're on a mission to make slow and meaningful fashion more affordable, starting with students.")
	out.line("If you're a school/college/university student, you can now get 15% off on your")
	out.line("Preetizen order (only applicable on one order per student)")
	out.blank()
	out.line("How to Get Your Discount:")
	out.line("  1. Fill out a quick form with your student details")
	out.line("  2. We'll verify your student status")
	out.line("  3. If approved your exclusive coupon code will be sent in your email within 24-48 hours!")
	out.blank()
	out.line("Student Discount Form")
	out.line("  Full Name, Email Address, Institution Name, Student ID, Course/Program (all required)")
	out.line("[ Submit Application ]")
	if p.notice != "" {
		out.blank()
		out.line(p.notice)
	}
	return out.err
}
