package scenario

import "remote_e2e/domain/entities"

var (
	AddRemoveLink = entities.LinkText("Add/Remove Elements")
	AddButton     = entities.CSS(`button[onclick="addElement()"]`)
	AddedElements = entities.CSS(".added-manually")
)

// AddRemoveElements opens the add/remove page, adds two elements, deletes
// them one by one and goes back to the home page. Every interaction is
// followed by a count of the added elements on the live page.
func AddRemoveElements(startURL string) []entities.Step {
	return []entities.Step{
		{Type: entities.StepNavigate, URL: startURL, Description: "open home page"},
		{Type: entities.StepClick, Selector: AddRemoveLink, Description: "open add/remove elements page"},
		{Type: entities.StepExpectCount, Selector: AddedElements, Expected: 0, Description: "no elements added initially"},

		{Type: entities.StepClick, Selector: AddButton, Description: "add first element"},
		{Type: entities.StepExpectCount, Selector: AddedElements, Expected: 1, Description: "one element added"},

		{Type: entities.StepClick, Selector: AddButton, Description: "add second element"},
		{Type: entities.StepExpectCount, Selector: AddedElements, Expected: 2, Description: "two elements added"},

		{Type: entities.StepClickNth, Selector: AddedElements, Index: 1, Description: "delete second element"},
		{Type: entities.StepExpectCount, Selector: AddedElements, Expected: 1, Description: "one element remains after deletion"},

		{Type: entities.StepClickNth, Selector: AddedElements, Index: 0, Description: "delete remaining element"},
		{Type: entities.StepExpectCount, Selector: AddedElements, Expected: 0, Description: "no elements remain after all deletions"},

		{Type: entities.StepBack, Description: "go back to home page"},
	}
}
