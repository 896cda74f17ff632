package shell

// HelpMessage lists every supported phrasing with examples.
const HelpMessage = `Available Commands:
------------------
1. File Operations
   - "list files" or "show files"
   - "create file example.txt"
   - "create folder documents"
   - "delete file notes.txt"
   - "delete folder temp"
   - "rename old_name to new_name"
   - "search report" (find files/folders by name)
   - "copy A.txt to backups" (copy file/folder)
   - "move docs to archive" (move/relocate)
   - "read file notes.txt" (show content)
   - "append "hello" to file notes.txt" (write text)
   - "grep "error"" (search in file contents)
   - "size of docs" (show size)
   - "tree 3" (directory tree up to 3 levels)
   - "touch README.md" (create/update timestamp)

2. Navigation
   - "change directory to documents" or "cd to docs"
   - "where am i" or "current directory"
   - "go back" or "go up"

3. Applications
   - "open notepad"
   - "open calculator"
   - "open file notes.txt" (open with default app)

4. System
   - "help" - Show this help message
   - "exit" or "quit" - Exit the shell
   - "history" or "history 20" - Show recent commands
   - "recent files 10" - Show latest modified files
   - "clear history" - Reset the journal
   - "stats" - Count files/folders here

Tips:
-----
- Commands accept natural phrases like "please"
- File operations are restricted to the sandbox directory
- Delete operations require confirmation
- Use simple, clear names for files and folders`
