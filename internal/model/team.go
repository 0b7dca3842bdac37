package model

// Association is the relationship between a user and a repository, as
// reported in author_association fields.
type Association string

const (
	AssociationOwner                Association = "OWNER"
	AssociationCollaborator         Association = "COLLABORATOR"
	AssociationMember               Association = "MEMBER"
	AssociationContributor          Association = "CONTRIBUTOR"
	AssociationFirstTimer           Association = "FIRST_TIMER"
	AssociationFirstTimeContributor Association = "FIRST_TIME_CONTRIBUTOR"
	AssociationMannequin            Association = "MANNEQUIN"
	AssociationNone                 Association = "NONE"
)

// IsMember reports whether the association counts as a project member.
// Unlike the usual maintainer check, prior contributors are members too.
func (a Association) IsMember() bool {
	switch a {
	case AssociationOwner, AssociationCollaborator, AssociationMember, AssociationContributor:
		return true
	default:
		return false
	}
}

// CountMemberComments returns how many comments were written by members.
func CountMemberComments(comments []Comment) int {
	n := 0
	for _, c := range comments {
		if c.AuthorAssociation.IsMember() {
			n++
		}
	}
	return n
}
