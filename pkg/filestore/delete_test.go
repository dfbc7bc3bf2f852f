package filestore

import (
	"os"
	"strings"
)

// TestDeleteFileSuccess tests deletion of record and object together.
func (s *ManagerTestSuite) TestDeleteFileSuccess() {
	s.upload("gone.txt", "bye")

	s.NoError(s.manager.DeleteFile(s.userID, "gone.txt"))

	s.NoFileExists(s.objectPath("gone.txt"))
	records, err := s.manager.ListFiles(s.userID, 0, 100)
	s.NoError(err)
	s.Empty(records)
}

// TestDeleteFileNotFound tests deletion of a file that does not exist.
func (s *ManagerTestSuite) TestDeleteFileNotFound() {
	s.ErrorIs(s.manager.DeleteFile(s.userID, "missing.txt"), ErrFileNotFound)
}

// TestDeleteFileMissingObject tests that delete succeeds when only the
// record exists; metadata is the authority.
func (s *ManagerTestSuite) TestDeleteFileMissingObject() {
	s.upload("half.txt", "x")
	s.Require().NoError(os.Remove(s.objectPath("half.txt")))

	s.NoError(s.manager.DeleteFile(s.userID, "half.txt"))

	records, err := s.manager.ListFiles(s.userID, 0, 100)
	s.NoError(err)
	s.Empty(records)
}

// TestDeleteThenLocate tests the delete-then-download behavior.
func (s *ManagerTestSuite) TestDeleteThenLocate() {
	s.upload("once.txt", "x")
	s.NoError(s.manager.DeleteFile(s.userID, "once.txt"))

	_, _, err := s.manager.LocateFile(s.userID, "once.txt")
	s.ErrorIs(err, ErrFileNotFound)

	// The name is free again after deletion.
	_, err = s.manager.SaveFile(s.userID, "once.txt", "", strings.NewReader("again"), 5)
	s.NoError(err)
}

// TestDeleteFileIsolation tests that a user cannot delete another's file.
func (s *ManagerTestSuite) TestDeleteFileIsolation() {
	s.upload("private.txt", "alice only")

	bob, err := s.store.CreateUser("bob", "hash")
	s.Require().NoError(err)

	s.ErrorIs(s.manager.DeleteFile(bob.ID, "private.txt"), ErrFileNotFound)
	s.FileExists(s.objectPath("private.txt"))
}

// TestDeleteFileTraversalName tests that traversal input collapses to the
// contained name.
func (s *ManagerTestSuite) TestDeleteFileTraversalName() {
	s.upload("target.txt", "x")

	s.NoError(s.manager.DeleteFile(s.userID, "../../1/target.txt"))
	s.NoFileExists(s.objectPath("target.txt"))
}
