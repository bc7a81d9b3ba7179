package api

import (
	"github.com/rpupo63/portfolio-backend/auth"
	"github.com/rpupo63/portfolio-backend/database"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(db database.Database, tokens *auth.TokenManager, notifier ContactNotifier, images ImageUploader) *routeHandlers {
	return &routeHandlers{
		metaHandler:    newMetaHandler(),
		authHandler:    newAuthHandler(db.UserRepo(), tokens),
		projectHandler: newProjectHandler(db.ProjectRepo(), images),
		skillHandler:   newSkillHandler(db.SkillCategoryRepo(), db.SkillRepo()),
		contactHandler: newContactHandler(db.ContactRepo(), notifier),
	}
}
