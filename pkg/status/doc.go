/*
Package status writes transformed files back to disk and records what
happened to each one.

	            +-------------+
	            |   Manager   |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +----+----+
	|   Files   |           | Tracking|
	| atomic,bak|           | progress|
	+-----------+           +---------+

🎯 Purpose:
- Replace file content atomically, keeping the file mode
- Optionally keep a .bak copy of the previous content
- Track per-file outcomes (modified, unchanged, skipped, failed) for a batch

⚡ Notes:
- Writes go to a temp file in the target directory, then rename
- Tracking and progress are guarded by a mutex; workers share one Manager
- Messages go through a FileFormatter and zerolog; FormatFileLine renders
  the aligned console line used by the CLI

🔍 Example:

	mgr := status.New(root)
	if err := mgr.BackupFile(ctx, "README.md"); err != nil {
		return err
	}
	if err := mgr.WriteFileAtomic(ctx, "README.md", out); err != nil {
		return err
	}
	mgr.TrackFile(ctx, "README.md", status.FileInfo{Status: status.StatusModified})
*/
package status
